package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kapu/vibecheck-analytics-go/internal/domain"
	"github.com/kapu/vibecheck-analytics-go/internal/httperror"
)

const dateOnlyLayout = "2006-01-02"

// parseWindow reads the from/to query params into a date range. Both are
// optional; absent params mean full history. On a malformed value the
// error is written and ok is false.
func parseWindow(c *gin.Context) (domain.DateRange, bool) {
	window, err := parseWindowValues(c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return domain.DateRange{}, false
	}
	return window, true
}

// parseWindowValues accepts date-only or RFC3339 bounds. A date-only "to"
// covers its whole day.
func parseWindowValues(fromRaw, toRaw string) (domain.DateRange, error) {
	from, err := parseDateValue(fromRaw, false)
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseDateValue(toRaw, true)
	if err != nil {
		return domain.DateRange{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return domain.DateRange{}, fmt.Errorf("'to' (%s) precedes 'from' (%s)", toRaw, fromRaw)
	}
	return domain.DateRange{From: from, To: to}, nil
}

func parseDateValue(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(dateOnlyLayout, raw); err == nil {
		if endOfDay {
			ts = ts.Add(24*time.Hour - time.Second)
		}
		return ts.UTC(), nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD or RFC3339", raw)
}
