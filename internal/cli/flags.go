package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/nodusapp/nodus/internal/domain"
	"github.com/spf13/pflag"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	time.DateOnly,
}

// timeValue is a pflag.Value holding an optional point in time. Values
// without a zone are read in local time.
type timeValue struct {
	t   *time.Time
	set bool
}

var _ pflag.Value = (*timeValue)(nil)

func newTimeValue(p *time.Time) *timeValue {
	return &timeValue{t: p}
}

func (v *timeValue) String() string {
	if v.t == nil || v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v *timeValue) Set(s string) error {
	t, err := parseTime(s)
	if err != nil {
		return err
	}
	*v.t = t
	v.set = true
	return nil
}

func (v *timeValue) Type() string { return "time" }

// ptr returns the value when the flag was given.
func (v *timeValue) ptr() *time.Time {
	if !v.set {
		return nil
	}
	t := *v.t
	return &t
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "now":
		return time.Now(), nil
	case "today":
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD, YYYY-MM-DD HH:MM or RFC 3339)", s)
}

// modeValue is a pflag.Value for domain.CompletionMode.
type modeValue struct {
	mode *domain.CompletionMode
}

var _ pflag.Value = (*modeValue)(nil)

func (v *modeValue) String() string {
	if v.mode == nil || *v.mode == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(v.mode.String(), "BY_"))
}

func (v *modeValue) Set(s string) error {
	m, err := domain.ParseCompletionMode(s)
	if err != nil {
		return err
	}
	*v.mode = m
	return nil
}

func (v *modeValue) Type() string { return "mode" }

// optionalInt turns an unset int flag into nil.
func optionalInt(flags *pflag.FlagSet, name string, v int) *int {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}

// optionalFloat turns an unset float flag into nil.
func optionalFloat(flags *pflag.FlagSet, name string, v float64) *float64 {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}
