package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the only accepted wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day. The zero value is not a valid date.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: must be in YYYY-MM-DD format", s)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
