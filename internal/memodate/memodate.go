// Package memodate resolves the partial dates printed inside memo strings.
//
// Card swipes carry only a month and day. The year is taken from a
// reference date, normally the statement or posting date, and moved one
// year forward or back when that lands the swipe more than half a year
// away from the reference.
package memodate

import (
	"fmt"
	"time"
)

// Window is the largest distance allowed between a resolved date and its
// reference before the year is shifted.
const Window = 180 * 24 * time.Hour

const (
	statementLayout = "2006 0102 1504"
	cardLayout      = "01-02-06"
)

// ResolveStatement parses a "MMDD HHMM" token against ref. The result is in
// ref's location. It reports false when the token is not a real calendar
// date and time in the reference year, or when the year shift lands a
// Feb 29 in a non-leap year.
func ResolveStatement(token string, ref time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation(statementLayout, fmt.Sprintf("%04d %s", ref.Year(), token), ref.Location())
	if err != nil {
		return time.Time{}, false
	}

	diff := t.Sub(ref)
	year := t.Year()
	switch {
	case diff < -Window:
		year++
	case diff > Window:
		year--
	default:
		return t, true
	}

	shifted := time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	if shifted.Month() != t.Month() || shifted.Day() != t.Day() {
		return time.Time{}, false
	}
	return shifted, true
}

// ResolveCard parses an "MM-DD-YY" token. Two-digit years 69-99 map to the
// 1900s and 00-68 to the 2000s.
func ResolveCard(token string) (time.Time, bool) {
	t, err := time.Parse(cardLayout, token)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
