package intent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day at UTC midnight.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

var (
	ordinalSuffix    = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)
	inDaysPattern    = regexp.MustCompile(`\bin (\d+) days?\b`)
	weeksFromWeekend = regexp.MustCompile(`\b(\d+|a|one) ?weeks? from (next|this) weekend\b`)
	nextWeekPattern  = regexp.MustCompile(`\bnext week\b`)
	monthDayRange    = regexp.MustCompile(`^([a-z]+)\.? (\d{1,2}) ?(?:-|–|to|through|until) ?(\d{1,2})(?: (\d{4}))?$`)
	rangeSeparator   = regexp.MustCompile(` (?:-|–|—|to|through|until) | ?[–—] ?`)
)

var (
	yearLayouts     = []string{"2006-01-02", "2006/01/02", "1/2/2006", "January 2 2006", "Jan 2 2006", "2 January 2006", "2 Jan 2006"}
	yearlessLayouts = []string{"January 2", "Jan 2", "2 January", "2 Jan", "1/2"}
)

// ParseDate resolves a single date expression relative to now. Range
// expressions resolve to their first day.
func ParseDate(expr string, now time.Time) (Date, error) {
	r, err := ParseDateRange(expr, now)
	if err != nil {
		return Date{}, err
	}
	return r.Start, nil
}

// ParseDateRange resolves expressions such as "June 1-5", "2026-06-01 to
// 2026-06-05", "next weekend" or "in 3 days". Dates without a year resolve
// to their next occurrence on or after today.
func ParseDateRange(expr string, now time.Time) (DateRange, error) {
	s := normalizeDateExpr(expr)
	if s == "" {
		return DateRange{}, ErrUnparsableDate
	}
	today := DateOf(now)

	if r, ok := parseRelative(s, today); ok {
		return r, nil
	}

	if m := monthDayRange.FindStringSubmatch(s); m != nil {
		year := ""
		if m[4] != "" {
			year = " " + m[4]
		}
		return parsePair(m[1]+" "+m[2]+year, m[1]+" "+m[3]+year, today)
	}

	if parts := rangeSeparator.Split(s, 2); len(parts) == 2 {
		return parsePair(parts[0], parts[1], today)
	}

	d, _, err := parseSingle(s, today)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: d, End: d}, nil
}

func parsePair(startExpr, endExpr string, today Date) (DateRange, error) {
	start, _, err := parseSingle(startExpr, today)
	if err != nil {
		return DateRange{}, err
	}
	end, endHasYear, err := parseSingle(endExpr, today)
	if err != nil {
		return DateRange{}, err
	}
	if !endHasYear {
		end = NewDate(start.Year(), end.Month(), end.Day())
		if end.Before(start.Time) {
			end = NewDate(start.Year()+1, end.Month(), end.Day())
		}
	}
	if end.Before(start.Time) {
		return DateRange{}, ErrInvertedDates
	}
	return DateRange{Start: start, End: end}, nil
}

func parseSingle(s string, today Date) (Date, bool, error) {
	s = strings.TrimSpace(s)
	for _, layout := range yearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), true, nil
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := NewDate(today.Year(), t.Month(), t.Day())
			if d.Before(today.Time) {
				d = NewDate(today.Year()+1, t.Month(), t.Day())
			}
			return d, false, nil
		}
	}
	if r, ok := parseRelative(s, today); ok {
		return r.Start, true, nil
	}
	return Date{}, false, ErrUnparsableDate
}

func parseRelative(s string, today Date) (DateRange, bool) {
	if m := weeksFromWeekend.FindStringSubmatch(s); m != nil {
		weeks := 1
		if n, err := strconv.Atoi(m[1]); err == nil {
			weeks = n
		}
		sat := upcomingSaturday(today)
		if m[2] == "next" {
			sat = sat.AddDays(7)
		}
		sat = sat.AddDays(7 * weeks)
		return DateRange{Start: sat, End: sat.AddDays(1)}, true
	}

	switch {
	case strings.Contains(s, "next weekend"):
		sat := upcomingSaturday(today).AddDays(7)
		return DateRange{Start: sat, End: sat.AddDays(1)}, true
	case strings.Contains(s, "this weekend"), strings.Contains(s, "upcoming weekend"), s == "weekend":
		sat := upcomingSaturday(today)
		return DateRange{Start: sat, End: sat.AddDays(1)}, true
	case s == "today":
		return DateRange{Start: today, End: today}, true
	case strings.Contains(s, "tomorrow"):
		d := today.AddDays(1)
		return DateRange{Start: d, End: d}, true
	case nextWeekPattern.MatchString(s):
		days := (8 - int(today.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		mon := today.AddDays(days)
		return DateRange{Start: mon, End: mon.AddDays(6)}, true
	}

	if m := inDaysPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return DateRange{}, false
		}
		d := today.AddDays(n)
		return DateRange{Start: d, End: d}, true
	}
	return DateRange{}, false
}

// upcomingSaturday is today on a Saturday, yesterday on a Sunday, otherwise
// the coming Saturday.
func upcomingSaturday(today Date) Date {
	switch wd := today.Weekday(); wd {
	case time.Saturday:
		return today
	case time.Sunday:
		return today.AddDays(-1)
	default:
		return today.AddDays(int(time.Saturday - wd))
	}
}

func normalizeDateExpr(expr string) string {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.ReplaceAll(s, ",", " ")
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}
