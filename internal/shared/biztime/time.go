// Package biztime computes business-calendar boundaries.
// Storage and transport use UTC; the business timezone only decides where a
// day or a billing month starts and ends.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is the business timezone of the product.
const DefaultTimezone = "Asia/Tehran"

var (
	bizLocation *time.Location
	bizMu       sync.RWMutex
)

// Init sets the business timezone. Empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load business timezone %q: %w", tz, err)
	}
	bizMu.Lock()
	bizLocation = loc
	bizMu.Unlock()
	return nil
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(err)
	}
}

// Location returns the business timezone, initializing the default lazily.
func Location() *time.Location {
	bizMu.RLock()
	loc := bizLocation
	bizMu.RUnlock()
	if loc != nil {
		return loc
	}
	MustInit("")
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Period is a half-open billing interval [Start, End) in UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// BillingPeriod returns the calendar month, in business time, containing t.
func BillingPeriod(t time.Time) Period {
	biz := t.In(Location())
	start := time.Date(biz.Year(), biz.Month(), 1, 0, 0, 0, 0, Location())
	return Period{
		Start: start.UTC(),
		End:   start.AddDate(0, 1, 0).UTC(),
	}
}

// PeriodStartMonthsAgo returns the start of the billing period n months
// before the one containing t.
func PeriodStartMonthsAgo(t time.Time, n int) time.Time {
	biz := t.In(Location())
	start := time.Date(biz.Year(), biz.Month(), 1, 0, 0, 0, 0, Location())
	return start.AddDate(0, -n, 0).UTC()
}

// StartOfDayUTC returns the start of the business day containing t, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	biz := t.In(Location())
	return time.Date(biz.Year(), biz.Month(), biz.Day(), 0, 0, 0, 0, Location()).UTC()
}

// FormatInBizTimezone formats a UTC time as a string in business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
