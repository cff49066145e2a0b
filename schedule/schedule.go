// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"
)

var (
	ErrMalformedTime    = errors.New("time must be HH:MM")
	ErrMalformedDate    = errors.New("date must be YYYY-MM-DD")
	ErrMalformedInstant = errors.New("instant must be YYYY-MM-DD HH:MM:SS")
)

// WireFormat is the strftime pattern of the backend's timestamp strings.
const WireFormat = "%Y-%m-%d %H:%M:%S"

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate reads a YYYY-MM-DD string. Out-of-range days such as
// 2025-02-30 are rejected rather than normalized.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
	}
	return DateOf(t), nil
}

// DateOf returns the local calendar day of t.
func DateOf(t time.Time) Date {
	y, m, d := t.In(time.Local).Date()
	return Date{Year: y, Month: m, Day: d}
}

// Midnight returns the start of the day in local time.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Midnight().AddDate(0, 0, n))
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseClock splits an HH:MM string into hour and minute. Both parts must be
// exactly two base-10 digits and in range.
func ParseClock(hhmm string) (hour, minute int, err error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, hhmm)
	}
	hour, errH := parseTwoDigits(hhmm[:2])
	minute, errM := parseTwoDigits(hhmm[3:])
	if errH != nil || errM != nil || hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedTime, hhmm)
	}
	return hour, minute, nil
}

func parseTwoDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// CombineDateAndTime builds the local instant at the given day and HH:MM,
// with seconds and nanoseconds zeroed.
func CombineDateAndTime(date Date, hhmm string) (time.Time, error) {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, time.Local), nil
}

// IsFutureDate reports whether date falls on a day strictly after the day of
// now. A date equal to today is not in the future.
func IsFutureDate(date Date, now time.Time) bool {
	return date.Midnight().After(DateOf(now).Midnight())
}

// IsEndAfterStart reports whether end is strictly later than start.
func IsEndAfterStart(start, end time.Time) bool {
	return end.After(start)
}

// FormatInstant renders t as YYYY-MM-DD HH:MM:SS in local time.
func FormatInstant(t time.Time) string {
	return strftime.Format(WireFormat, t.In(time.Local))
}

// ParseInstant reads a wire timestamp back into a local instant. The ISO-8601
// local form with a T separator is accepted too.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range []string{time.DateTime, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedInstant, s)
}

// Window is the span between a proposal's start and end instants.
type Window struct {
	Start time.Time
	End   time.Time
}

// Started reports whether now is at or after the start.
func (w Window) Started(now time.Time) bool {
	return !now.Before(w.Start)
}

// Open reports whether now lies within [Start, End].
func (w Window) Open(now time.Time) bool {
	return w.Started(now) && !now.After(w.End)
}

// Ended reports whether now is past the end.
func (w Window) Ended(now time.Time) bool {
	return now.After(w.End)
}
