// Package zodiac maps calendar dates to the twelve tropical zodiac signs.
package zodiac

import "fmt"

// Sign is one of the twelve zodiac signs.
type Sign string

const (
	Aries       Sign = "Aries"
	Taurus      Sign = "Taurus"
	Gemini      Sign = "Gemini"
	Cancer      Sign = "Cancer"
	Leo         Sign = "Leo"
	Virgo       Sign = "Virgo"
	Libra       Sign = "Libra"
	Scorpio     Sign = "Scorpio"
	Sagittarius Sign = "Sagittarius"
	Capricorn   Sign = "Capricorn"
	Aquarius    Sign = "Aquarius"
	Pisces      Sign = "Pisces"
)

type interval struct {
	fromDay, fromMonth int
	toDay, toMonth     int
	sign               Sign
}

// intervals cover the full year. Capricorn wraps across the year boundary
// and is split into two entries.
var intervals = []interval{
	{21, 3, 19, 4, Aries},
	{20, 4, 20, 5, Taurus},
	{21, 5, 20, 6, Gemini},
	{21, 6, 22, 7, Cancer},
	{23, 7, 22, 8, Leo},
	{23, 8, 22, 9, Virgo},
	{23, 9, 22, 10, Libra},
	{23, 10, 21, 11, Scorpio},
	{22, 11, 21, 12, Sagittarius},
	{22, 12, 31, 12, Capricorn},
	{1, 1, 19, 1, Capricorn},
	{20, 1, 18, 2, Aquarius},
	{19, 2, 20, 3, Pisces},
}

// SignFor returns the zodiac sign for the given day and month.
// Day/month validity is the caller's concern; any in-calendar pair maps
// to exactly one sign.
func SignFor(day, month int) Sign {
	key := month*100 + day
	for _, iv := range intervals {
		from := iv.fromMonth*100 + iv.fromDay
		to := iv.toMonth*100 + iv.toDay
		if key >= from && key <= to {
			return iv.sign
		}
	}
	return Capricorn
}

// Table renders the interval table as prompt-ready text, one sign per line.
func Table() string {
	lines := ""
	for _, iv := range intervals[:9] {
		lines += fmt.Sprintf("%s: %02d.%02d - %02d.%02d\n", iv.sign, iv.fromDay, iv.fromMonth, iv.toDay, iv.toMonth)
	}
	lines += fmt.Sprintf("%s: %02d.%02d - %02d.%02d\n", Capricorn, 22, 12, 19, 1)
	for _, iv := range intervals[11:] {
		lines += fmt.Sprintf("%s: %02d.%02d - %02d.%02d\n", iv.sign, iv.fromDay, iv.fromMonth, iv.toDay, iv.toMonth)
	}
	return lines
}
