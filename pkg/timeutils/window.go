package timeutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var runDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Weekday is the lower-case English day name used as a template key.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the keys in calendar order starting on monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (w Weekday) String() string { return string(w) }

// Title returns the capitalised English name.
func (w Weekday) Title() string {
	if w == "" {
		return ""
	}
	s := string(w)
	return strings.ToUpper(s[:1]) + s[1:]
}

func fromTimeWeekday(d time.Weekday) Weekday {
	if d == time.Sunday {
		return Sunday
	}
	return Weekdays[int(d)-1]
}

// ParseWeekday resolves a day name case-insensitively. Unknown names are an
// error rather than a default.
func ParseWeekday(name string) (Weekday, error) {
	key := Weekday(strings.ToLower(strings.TrimSpace(name)))
	for _, w := range Weekdays {
		if w == key {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", name)
}

// IsRunDate reports whether value has the YYYY-MM-DD shape.
func IsRunDate(value string) bool {
	return runDatePattern.MatchString(value)
}

// WeekdayForDate returns the weekday of a calendar date. The date is parsed as
// a plain calendar value so the host timezone never shifts it.
func WeekdayForDate(runDate string) (Weekday, error) {
	if !IsRunDate(runDate) {
		return "", fmt.Errorf("invalid run date %q", runDate)
	}
	t, err := time.ParseInLocation(DateLayout, runDate, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid run date %q: %w", runDate, err)
	}
	return fromTimeWeekday(t.Weekday()), nil
}

// RunDateFor returns the business-local calendar date of now.
func RunDateFor(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// WindowDecision is the outcome of one schedule evaluation.
type WindowDecision struct {
	ShouldRun bool    `json:"should_run"`
	Reason    string  `json:"reason"`
	RunDate   string  `json:"run_date"`
	Weekday   Weekday `json:"weekday"`
	LocalHour int     `json:"local_hour"`
}

// EvaluateWindow decides whether now falls in the configured posting hour of
// the business timezone.
func EvaluateWindow(now time.Time, loc *time.Location, postHour int) (WindowDecision, error) {
	if loc == nil {
		return WindowDecision{}, fmt.Errorf("business timezone is required")
	}
	if postHour < 0 || postHour > 23 {
		return WindowDecision{}, fmt.Errorf("post hour %d out of range [0,23]", postHour)
	}

	local := now.In(loc)
	decision := WindowDecision{
		RunDate:   local.Format(DateLayout),
		Weekday:   fromTimeWeekday(local.Weekday()),
		LocalHour: local.Hour(),
	}

	if local.Hour() == postHour {
		decision.ShouldRun = true
		decision.Reason = "Within schedule window"
		return decision, nil
	}

	decision.Reason = fmt.Sprintf("Not posting hour yet (%d:00 local)", local.Hour())
	return decision, nil
}

// NextWindowStart returns the next instant at which the posting hour begins,
// strictly after now.
func NextWindowStart(now time.Time, loc *time.Location, postHour int) time.Time {
	local := now.In(loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), postHour, 0, 0, 0, loc)
	if !candidate.After(local) {
		candidate = time.Date(local.Year(), local.Month(), local.Day()+1, postHour, 0, 0, 0, loc)
	}
	return candidate
}
