package recipe

import "time"

const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day or timezone component,
// serialized as YYYY-MM-DD (§4.1: "no implicit timezones").
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Time() time.Time {
	return d.t
}
