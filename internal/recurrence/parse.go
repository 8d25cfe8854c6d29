package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	untilLayoutUTC      = "20060102T150405Z"
	untilLayoutFloating = "20060102T150405"
	untilLayoutDate     = "20060102"
)

var weekdayCodes = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var weekdayNames = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// Parse reads RRULE text such as "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO,WE,FR".
// An "RRULE:" prefix and a preceding DTSTART line are accepted; DTSTART is
// ignored because the series anchor is supplied by the caller.
func Parse(text string) (Rule, error) {
	body, err := ruleBody(text)
	if err != nil {
		return Rule{}, err
	}

	var (
		freq     Frequency
		interval = 1
		opts     []Option
		ended    bool
		seen     = make(map[string]bool)
	)

	for _, part := range strings.Split(body, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok || value == "" {
			return Rule{}, &ParseError{Text: text, Reason: fmt.Sprintf("malformed part %q", part)}
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.ToUpper(strings.TrimSpace(value))
		if seen[key] {
			return Rule{}, &ParseError{Text: text, Reason: fmt.Sprintf("duplicate %s", key)}
		}
		seen[key] = true

		switch key {
		case "FREQ":
			freq = Frequency(value)
			if !freq.valid() {
				return Rule{}, &ParseError{Text: text, Reason: fmt.Sprintf("unsupported FREQ %q", value)}
			}
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil {
				return Rule{}, &ParseError{Text: text, Reason: fmt.Sprintf("INTERVAL %q is not a number", value)}
			}
			interval = n
		case "BYDAY":
			days, err := parseWeekdays(value)
			if err != nil {
				return Rule{}, &ParseError{Text: text, Reason: err.Error()}
			}
			opts = append(opts, WithWeekdays(days...))
		case "BYMONTHDAY":
			days, err := parseMonthDays(value)
			if err != nil {
				return Rule{}, &ParseError{Text: text, Reason: err.Error()}
			}
			opts = append(opts, WithMonthDays(days...))
		case "UNTIL":
			if ended {
				return Rule{}, &ParseError{Text: text, Reason: "UNTIL and COUNT are mutually exclusive"}
			}
			until, err := parseUntil(value)
			if err != nil {
				return Rule{}, &ParseError{Text: text, Reason: err.Error()}
			}
			opts = append(opts, WithEnd(Until(until)))
			ended = true
		case "COUNT":
			if ended {
				return Rule{}, &ParseError{Text: text, Reason: "UNTIL and COUNT are mutually exclusive"}
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return Rule{}, &ParseError{Text: text, Reason: fmt.Sprintf("COUNT %q is not a number", value)}
			}
			opts = append(opts, WithEnd(Count(n)))
			ended = true
		case "WKST":
			if value != "MO" {
				return Rule{}, &ParseError{Text: text, Reason: "only WKST=MO is supported"}
			}
		default:
			return Rule{}, &ParseError{Text: text, Reason: fmt.Sprintf("unsupported part %s", key)}
		}
	}

	if freq == "" {
		return Rule{}, &ParseError{Text: text, Reason: "FREQ is required"}
	}

	r, err := New(freq, interval, opts...)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Text = text
		}
		return Rule{}, err
	}
	return r, nil
}

func ruleBody(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &ParseError{Text: text, Reason: "empty rule"}
	}

	var body string
	for _, line := range strings.FieldsFunc(trimmed, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(upper, "DTSTART"):
			continue
		case body != "":
			return "", &ParseError{Text: text, Reason: "more than one RRULE line"}
		case strings.HasPrefix(upper, "RRULE:"):
			body = line[len("RRULE:"):]
		default:
			body = line
		}
	}
	if body == "" {
		return "", &ParseError{Text: text, Reason: "no RRULE found"}
	}
	return body, nil
}

func parseWeekdays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, code := range strings.Split(value, ",") {
		d, ok := weekdayCodes[strings.TrimSpace(code)]
		if !ok {
			return nil, fmt.Errorf("unsupported BYDAY value %q", code)
		}
		days = append(days, d)
	}
	return days, nil
}

func parseMonthDays(value string) ([]int, error) {
	var days []int
	for _, s := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("BYMONTHDAY value %q is not a number", s)
		}
		days = append(days, n)
	}
	return days, nil
}

// parseUntil accepts UTC date-times, floating date-times (read as UTC) and
// plain dates. A plain date covers the whole day.
func parseUntil(value string) (time.Time, error) {
	if t, err := time.Parse(untilLayoutUTC, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(untilLayoutFloating, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(untilLayoutDate, value); err == nil {
		return t.Add(24*time.Hour - time.Second), nil
	}
	return time.Time{}, fmt.Errorf("UNTIL %q is not a valid date", value)
}

// String encodes r as canonical RRULE text without the "RRULE:" prefix.
func (r Rule) String() string {
	if r.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(string(r.freq))
	b.WriteString(";INTERVAL=")
	b.WriteString(strconv.Itoa(r.interval))

	if len(r.byWeekday) > 0 {
		codes := make([]string, len(r.byWeekday))
		for i, d := range r.byWeekday {
			codes[i] = weekdayNames[d]
		}
		b.WriteString(";BYDAY=")
		b.WriteString(strings.Join(codes, ","))
	}
	if len(r.byMonthDay) > 0 {
		days := make([]string, len(r.byMonthDay))
		for i, d := range r.byMonthDay {
			days[i] = strconv.Itoa(d)
		}
		b.WriteString(";BYMONTHDAY=")
		b.WriteString(strings.Join(days, ","))
	}

	switch r.end.Kind {
	case EndUntil:
		b.WriteString(";UNTIL=")
		b.WriteString(r.end.Until.UTC().Format(untilLayoutUTC))
	case EndCount:
		b.WriteString(";COUNT=")
		b.WriteString(strconv.Itoa(r.end.Count))
	}
	return b.String()
}
