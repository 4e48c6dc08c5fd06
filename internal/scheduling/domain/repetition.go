package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// RepetitionKind enumerates the repetition shapes a Goal may specify.
type RepetitionKind int

const (
	RepNone RepetitionKind = iota
	RepDaily
	RepHourly
	RepWeekly
	RepWeekdays
	RepWeekends
	RepSpecificWeekday
	RepEveryXDays
	RepEveryXHours
)

// Repetition is a parsed, validated repetition specification.
type Repetition struct {
	Kind    RepetitionKind
	N       int          // count for Daily(N)/Weekly(N); stride for EveryXDays(N)/EveryXHours(N)
	Weekday time.Weekday // set when Kind == RepSpecificWeekday
}

var everyDaysRe = regexp.MustCompile(`^every (\d+) days$`)
var everyHoursRe = regexp.MustCompile(`^every (\d+) hours$`)
var perWeekRe = regexp.MustCompile(`^(\d+)/week$`)
var perDayRe = regexp.MustCompile(`^(\d+)/day$`)

var weekdayNames = map[string]time.Weekday{
	"mondays":    time.Monday,
	"tuesdays":   time.Tuesday,
	"wednesdays": time.Wednesday,
	"thursdays":  time.Thursday,
	"fridays":    time.Friday,
	"saturdays":  time.Saturday,
	"sundays":    time.Sunday,
}

// ParseRepetition parses one of the repetition-string forms.
// It cross-validates the resulting shape against rrule-go's ROption (interval
// and weekday constraints, per the RFC-5545 model) before returning; the
// per-window emission semantics are implemented by TimeSlotsIterator, not by
// rrule's iterator.
func ParseRepetition(s string) (Repetition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Repetition{Kind: RepNone}, nil
	}

	switch s {
	case "daily":
		return validateRepetition(Repetition{Kind: RepDaily, N: 1})
	case "hourly":
		return validateRepetition(Repetition{Kind: RepHourly})
	case "weekly":
		return validateRepetition(Repetition{Kind: RepWeekly, N: 1})
	case "weekdays":
		return validateRepetition(Repetition{Kind: RepWeekdays})
	case "weekends":
		return validateRepetition(Repetition{Kind: RepWeekends})
	}

	if wd, ok := weekdayNames[s]; ok {
		return validateRepetition(Repetition{Kind: RepSpecificWeekday, Weekday: wd})
	}

	if m := everyDaysRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return validateRepetition(Repetition{Kind: RepEveryXDays, N: n})
	}
	if m := everyHoursRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return validateRepetition(Repetition{Kind: RepEveryXHours, N: n})
	}
	if m := perWeekRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return validateRepetition(Repetition{Kind: RepWeekly, N: n})
	}
	if m := perDayRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return validateRepetition(Repetition{Kind: RepDaily, N: n})
	}

	return Repetition{}, fmt.Errorf("%w: unrecognized repetition %q", ErrInvalidInput, s)
}

// validateRepetition builds the rrule.ROption equivalent of r and asks
// rrule-go to construct an RRule from it, surfacing malformed
// interval/weekday combinations as InvalidInput before the iterator ever runs.
func validateRepetition(r Repetition) (Repetition, error) {
	opt := rrule.ROption{Dtstart: time.Now(), Count: 1}

	switch r.Kind {
	case RepDaily:
		opt.Freq = rrule.DAILY
		opt.Interval = 1
	case RepHourly:
		opt.Freq = rrule.HOURLY
		opt.Interval = 1
	case RepWeekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 1
	case RepWeekdays:
		opt.Freq = rrule.DAILY
		opt.Interval = 1
		opt.Byweekday = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
	case RepWeekends:
		opt.Freq = rrule.DAILY
		opt.Interval = 1
		opt.Byweekday = []rrule.Weekday{rrule.SA, rrule.SU}
	case RepSpecificWeekday:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 1
		opt.Byweekday = []rrule.Weekday{goWeekdayToRRule(r.Weekday)}
	case RepEveryXDays:
		if r.N <= 0 {
			return Repetition{}, fmt.Errorf("%w: every-N-days stride must be positive", ErrInvalidInput)
		}
		opt.Freq = rrule.DAILY
		opt.Interval = r.N
	case RepEveryXHours:
		if r.N <= 0 {
			return Repetition{}, fmt.Errorf("%w: every-N-hours stride must be positive", ErrInvalidInput)
		}
		opt.Freq = rrule.HOURLY
		opt.Interval = r.N
	default:
		return r, nil
	}

	if r.Kind == RepWeekly || r.Kind == RepDaily {
		if r.N <= 0 {
			return Repetition{}, fmt.Errorf("%w: repetition count must be positive", ErrInvalidInput)
		}
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		return Repetition{}, fmt.Errorf("%w: invalid repetition shape: %v", ErrInvalidInput, err)
	}
	return r, nil
}

func goWeekdayToRRule(d time.Weekday) rrule.Weekday {
	switch d {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}
