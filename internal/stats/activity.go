package stats

import (
	"sort"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// TimelinePoint: messages per entity per calendar day.
type TimelinePoint struct {
	Day    string `json:"day"`
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// HeatmapCell: messages per weekday and hour-of-day bucket.
type HeatmapCell struct {
	Weekday int    `json:"weekday"` // 0 = Monday
	DayName string `json:"day_name"`
	Hour    int    `json:"hour"`
	Count   int    `json:"count"`
}

// Activity: the daily timeline plus the weekday/hour heatmap.
type Activity struct {
	Timeline []TimelinePoint `json:"timeline"`
	Heatmap  []HeatmapCell   `json:"heatmap"`
}

var weekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// BuildActivity breaks the snapshot down by day and by weekday/hour.
// Both outputs come back chronologically sorted for stable rendering.
func BuildActivity(records []domain.MessageRecord) Activity {
	type dayKey struct {
		day    string
		entity string
	}
	type hourKey struct {
		weekday int
		hour    int
	}

	daily := make(map[dayKey]int)
	hourly := make(map[hourKey]int)

	for _, rec := range records {
		daily[dayKey{day: rec.Date.Format("2006-01-02"), entity: rec.Username}]++
		// time.Weekday starts on Sunday; shift so Monday is 0.
		weekday := (int(rec.Date.Weekday()) + 6) % 7
		hourly[hourKey{weekday: weekday, hour: rec.Date.Hour()}]++
	}

	activity := Activity{
		Timeline: make([]TimelinePoint, 0, len(daily)),
		Heatmap:  make([]HeatmapCell, 0, len(hourly)),
	}
	for key, count := range daily {
		activity.Timeline = append(activity.Timeline, TimelinePoint{
			Day:    key.day,
			Entity: key.entity,
			Count:  count,
		})
	}
	for key, count := range hourly {
		activity.Heatmap = append(activity.Heatmap, HeatmapCell{
			Weekday: key.weekday,
			DayName: weekdayNames[key.weekday],
			Hour:    key.hour,
			Count:   count,
		})
	}

	sort.Slice(activity.Timeline, func(i, j int) bool {
		if activity.Timeline[i].Day != activity.Timeline[j].Day {
			return activity.Timeline[i].Day < activity.Timeline[j].Day
		}
		return activity.Timeline[i].Entity < activity.Timeline[j].Entity
	})
	sort.Slice(activity.Heatmap, func(i, j int) bool {
		if activity.Heatmap[i].Weekday != activity.Heatmap[j].Weekday {
			return activity.Heatmap[i].Weekday < activity.Heatmap[j].Weekday
		}
		return activity.Heatmap[i].Hour < activity.Heatmap[j].Hour
	})
	return activity
}
