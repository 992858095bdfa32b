package stats

import (
	"fmt"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
)

// Summary: archive-wide headline numbers. Computed over the full snapshot
// including forwarded messages, matching the raw archive view.
type Summary struct {
	TotalMessages      int    `json:"total_messages"`
	DistinctDays       int    `json:"distinct_days"`
	Photos             int    `json:"photos"`
	VideoFiles         int    `json:"video_files"`
	Stickers           int    `json:"stickers"`
	MostActive         string `json:"most_active,omitempty"`
	VoiceSeconds       int    `json:"voice_seconds"`
	VideoNoteSeconds   int    `json:"video_note_seconds"`
	VoiceDuration      string `json:"voice_duration"`
	VideoNoteDuration  string `json:"video_note_duration"`
}

// Summarize computes the headline numbers. An empty snapshot yields the
// zero summary.
func Summarize(records []domain.MessageRecord) Summary {
	summary := Summary{}
	days := make(map[string]struct{})
	perEntity := make(map[string]int)

	for _, rec := range records {
		summary.TotalMessages++
		days[rec.Date.Format("2006-01-02")] = struct{}{}
		perEntity[rec.Username]++

		switch rec.MediaKind {
		case domain.MediaPhoto:
			summary.Photos++
		case domain.MediaVideoFile:
			summary.VideoFiles++
		case domain.MediaSticker:
			summary.Stickers++
		}
		summary.VoiceSeconds += rec.VoiceDuration
		summary.VideoNoteSeconds += rec.VideoDuration
	}

	summary.DistinctDays = len(days)
	summary.MostActive = maxKey(perEntity)
	summary.VoiceDuration = FormatDuration(summary.VoiceSeconds)
	summary.VideoNoteDuration = FormatDuration(summary.VideoNoteSeconds)
	return summary
}

func maxKey(counts map[string]int) string {
	best := ""
	bestCount := -1
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best = name
			bestCount = count
		}
	}
	return best
}

// FormatDuration renders seconds the way the archive UI expects:
// "1ч 2м" above an hour, "2м 3с" above a minute, "5 сек" below.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0 сек"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dч %dм", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dм %dс", m, s)
	}
	return fmt.Sprintf("%d сек", s)
}
