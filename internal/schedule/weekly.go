package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxWeeks caps how far a weekly repeat can run.
const MaxWeeks = 26

// Duration of every class. End times are derived from this, never stored
// independently.
const Duration = time.Hour

var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM 24-hour format")
	ErrInvalidRecurrence = fmt.Errorf("weeks must be between 0 and %d", MaxWeeks)
)

// Template carries the class fields copied onto every generated instance.
type Template struct {
	Name             string  `validate:"required"`
	BriefDescription string  `validate:"required"`
	FullDescription  string  `validate:"required"`
	Instructor       string  `validate:"required"`
	Price            float64 `validate:"gte=0"`
}

// Options describes a weekly recurrence.
type Options struct {
	StartDate time.Time    // search begins here, inclusive
	Weeks     int          // number of instances, 0..MaxWeeks
	DayOfWeek time.Weekday // weekday every instance falls on
	TimeOfDay string       // "HH:MM", 24-hour
}

// Draft is one generated class instance, not yet persisted.
type Draft struct {
	Name             string
	BriefDescription string
	FullDescription  string
	Instructor       string
	Price            float64
	StartTime        time.Time
	WeeklyRepeat     int // always 0; the repeat count is consumed here
}

// Generate expands tpl into opts.Weeks drafts, one per week.
//
// The first draft lands on the first date >= opts.StartDate whose weekday
// is opts.DayOfWeek (zero-day shift when StartDate already matches), at
// opts.TimeOfDay with seconds zeroed. Each following draft is exactly 7
// calendar days later — AddDate, not 168h, so the wall-clock time
// survives DST transitions in zoned calendars. Pure function: no side
// effects, identical inputs yield identical output.
func Generate(tpl Template, opts Options) ([]Draft, error) {
	if opts.Weeks < 0 || opts.Weeks > MaxWeeks {
		return nil, ErrInvalidRecurrence
	}
	hour, min, err := ParseTimeOfDay(opts.TimeOfDay)
	if err != nil {
		return nil, err
	}

	shift := (int(opts.DayOfWeek) - int(opts.StartDate.Weekday()) + 7) % 7
	first := opts.StartDate.AddDate(0, 0, shift)
	first = time.Date(first.Year(), first.Month(), first.Day(), hour, min, 0, 0, first.Location())

	drafts := make([]Draft, 0, opts.Weeks)
	for week := 0; week < opts.Weeks; week++ {
		drafts = append(drafts, Draft{
			Name:             tpl.Name,
			BriefDescription: tpl.BriefDescription,
			FullDescription:  tpl.FullDescription,
			Instructor:       tpl.Instructor,
			Price:            tpl.Price,
			StartTime:        first.AddDate(0, 0, 7*week),
			WeeklyRepeat:     0,
		})
	}
	return drafts, nil
}

// ParseTimeOfDay parses a strict "HH:MM" 24-hour string.
func ParseTimeOfDay(s string) (hour, min int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidTimeFormat
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidTimeFormat
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, ErrInvalidTimeFormat
	}
	return hour, min, nil
}

// ParseDay maps a weekday name ("monday", "Mon"...) to time.Weekday.
func ParseDay(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
