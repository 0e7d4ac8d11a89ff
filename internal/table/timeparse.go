package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpoch is day zero for spreadsheet serial dates (1900 date system,
// including the 1900 leap-year bug).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006", "1/2/2006", "02.01.2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

var clockLayouts = []string{
	"15:04:05", "15:04:05.000", "15:04", "3:04:05 PM", "3:04 PM", "3:04:05PM", "3:04PM",
}

// FromSerial converts a spreadsheet serial day number to a UTC time.
func FromSerial(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	ns := math.Round(frac * float64(24*time.Hour) / float64(time.Millisecond))
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(ns) * time.Millisecond)
}

// ParseDate parses a date cell: textual layouts or a serial day number.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 1 && f < 2958466 {
		return FromSerial(f), true
	}
	return time.Time{}, false
}

// ParseClock parses a time-of-day cell: textual layouts or a fraction of a day.
func ParseClock(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, l := range clockLayouts {
		if t, err := time.Parse(l, strings.ToUpper(s)); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f < 1 {
		return FromSerial(f).Sub(excelEpoch), true
	}
	return 0, false
}

// Combine joins a date cell and a time-of-day cell into one timestamp. The
// clock replaces any time carried by the date cell.
func Combine(date, clock string) (time.Time, bool) {
	d, ok := ParseDate(date)
	if !ok {
		return time.Time{}, false
	}
	c, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return day.Add(c), true
}
