package timetable

import "fmt"

// DefaultHorizonDays caps the reconciliation window to bound the cost of a
// single pass; a window longer than this is rejected up front.
const DefaultHorizonDays = 730 // 2 years

// DateSeq is a lazy, finite, restartable ascending sequence of the calendar
// dates in [start, end] whose weekday is in the rule's weekday set.
// Enumeration is an exhaustive day-by-day walk: every matching day must later
// get exactly one Occurrence, so no shortcutting.
type DateSeq struct {
	start, end Date
	weekdays   [7]bool
	next       Date
	done       bool
}

// Expand turns a recurrence rule and a window into a date sequence, using the
// default horizon. An inverted window (end before start) yields an empty
// sequence, not an error.
func Expand(rule RecurrenceRule, start, end Date) (*DateSeq, error) {
	return ExpandHorizon(rule, start, end, DefaultHorizonDays)
}

// ExpandHorizon is Expand with an explicit horizon cap in days.
func ExpandHorizon(rule RecurrenceRule, start, end Date, horizonDays int) (*DateSeq, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	if days := start.DaysUntil(end); days > horizonDays {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("window %s..%s spans %d days, exceeding the %d-day horizon", start, end, days, horizonDays),
		}
	}

	seq := &DateSeq{start: start, end: end, weekdays: rule.weekdaySet()}
	seq.Reset()
	return seq, nil
}

// Next returns the next matching date, or false when the sequence is exhausted.
func (s *DateSeq) Next() (Date, bool) {
	for !s.done {
		d := s.next
		if d.After(s.end) {
			s.done = true
			break
		}
		s.next = d.AddDays(1)
		if s.weekdays[int(d.Weekday())] {
			return d, true
		}
	}
	return Date{}, false
}

// Reset rewinds the sequence to its start; the sequence is restartable any
// number of times.
func (s *DateSeq) Reset() {
	s.next = s.start
	s.done = s.end.Before(s.start)
}

// Dates drains a reset copy of the sequence into a slice.
func (s *DateSeq) Dates() []Date {
	seq := *s
	seq.Reset()
	var out []Date
	for d, ok := seq.Next(); ok; d, ok = seq.Next() {
		out = append(out, d)
	}
	return out
}
