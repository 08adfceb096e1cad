package market

import (
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

// NewYork is the exchange clock all session windows are expressed in.
var NewYork = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Window is a time-of-day span, both ends inclusive.
type Window struct {
	Name  string
	Start time.Duration // offset from local midnight
	End   time.Duration
}

func clock(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

var (
	// RDR is the regular-session defining range, 09:30-10:30.
	RDR = Window{Name: "RDR", Start: clock(9, 30), End: clock(10, 30)}

	SilverBulletAM = Window{Name: "AM SILVER BULLET", Start: clock(10, 0), End: clock(11, 0)}
	SilverBulletPM = Window{Name: "PM SILVER BULLET", Start: clock(14, 0), End: clock(15, 0)}
)

const OffHours = "OFF HOURS"

// Contains reports whether t's wall clock in loc falls in the window.
func (w Window) Contains(t time.Time, loc *time.Location) bool {
	t = t.In(loc)
	tod := clock(t.Hour(), t.Minute()) + time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
	return tod >= w.Start && tod <= w.End
}

// Bounds returns the window's absolute start and end on day's date in loc.
func (w Window) Bounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(w.Start), midnight.Add(w.End)
}

// Range is the high, low and midpoint of a session.
type Range struct {
	High float64 `json:"h"`
	Low  float64 `json:"l"`
	Mid  float64 `json:"mid"`
}

// SessionRange computes the range of candles inside w on day. It returns nil
// when no candle falls in the window.
func SessionRange(cs []Candle, w Window, day time.Time, loc *time.Location) *Range {
	start, end := w.Bounds(day, loc)

	var r *Range
	for _, c := range cs {
		if c.Time.Before(start) || c.Time.After(end) {
			continue
		}
		if r == nil {
			r = &Range{High: c.High, Low: c.Low}
			continue
		}
		if c.High > r.High {
			r.High = c.High
		}
		if c.Low < r.Low {
			r.Low = c.Low
		}
	}
	if r == nil {
		return nil
	}

	r.High = round2(r.High)
	r.Low = round2(r.Low)
	r.Mid = round2((r.High + r.Low) / 2)
	return r
}

// SilverBullet names the active silver-bullet window, or OffHours.
func SilverBullet(now time.Time, loc *time.Location) string {
	for _, w := range []Window{SilverBulletAM, SilverBulletPM} {
		if w.Contains(now, loc) {
			return w.Name
		}
	}
	return OffHours
}

func round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
