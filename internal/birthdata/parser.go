// Package birthdata extracts and normalizes birth date and time from
// free-form user messages.
package birthdata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidFormat indicates the input does not contain a recognizable
// birth date.
var ErrInvalidFormat = errors.New("birthdata: invalid format")

var (
	dateRe  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	clockRe = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

// DefaultTime is substituted when the message carries no clock time.
const DefaultTime = "12:00"

// BirthData is a normalized birth moment in "DD.MM.YYYY HH:MM" form.
type BirthData struct {
	Day    int
	Month  int
	Year   int
	Hour   int
	Minute int
}

// String renders the canonical zero-padded representation.
func (b BirthData) String() string {
	return fmt.Sprintf("%02d.%02d.%04d %02d:%02d", b.Day, b.Month, b.Year, b.Hour, b.Minute)
}

// Parse extracts a birth date and optional time from raw user text.
// The date may appear anywhere in the message. A missing or malformed
// clock time falls back to DefaultTime rather than failing the parse.
func Parse(raw string) (BirthData, error) {
	m := dateRe.FindStringSubmatch(raw)
	if m == nil {
		return BirthData{}, ErrInvalidFormat
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if !validDate(day, month, year) {
		return BirthData{}, ErrInvalidFormat
	}

	hour, minute := 12, 0
	if cm := clockRe.FindStringSubmatch(raw); cm != nil {
		hour, _ = strconv.Atoi(cm[1])
		minute, _ = strconv.Atoi(cm[2])
	}

	return BirthData{
		Day:    day,
		Month:  month,
		Year:   year,
		Hour:   hour,
		Minute: minute,
	}, nil
}

func validDate(day, month, year int) bool {
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > daysIn(month, year) {
		return false
	}
	return true
}

func daysIn(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	}
	return 0
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
