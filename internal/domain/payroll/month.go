package payroll

import (
	"strconv"
	"strings"
	"time"
)

// Window is a calendar month as a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ParseMonth resolves a pay period label such as "August-2025", "aug-2025"
// or "2025-08" into the month window in loc.
func ParseMonth(label string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	label = strings.TrimSpace(label)
	head, tail, ok := strings.Cut(label, "-")
	if !ok || head == "" || tail == "" {
		return Window{}, ErrInvalidMonth
	}

	var year int
	var month time.Month
	if m, found := monthByName(head); found {
		y, err := parseYear(tail)
		if err != nil {
			return Window{}, ErrInvalidMonth
		}
		year, month = y, m
	} else {
		y, err := parseYear(head)
		if err != nil {
			return Window{}, ErrInvalidMonth
		}
		n, err := strconv.Atoi(tail)
		if err != nil || len(tail) != 2 || n < 1 || n > 12 {
			return Window{}, ErrInvalidMonth
		}
		year, month = y, time.Month(n)
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// MonthLabel renders the canonical "MonthName-YYYY" label for t.
func MonthLabel(t time.Time) string {
	return t.Month().String() + "-" + strconv.Itoa(t.Year())
}

func monthByName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m, true
		}
	}
	return 0, false
}

func parseYear(raw string) (int, error) {
	if len(raw) != 4 {
		return 0, ErrInvalidMonth
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y < 1900 {
		return 0, ErrInvalidMonth
	}
	return y, nil
}
