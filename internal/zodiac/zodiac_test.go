package zodiac

import (
	"strings"
	"testing"
)

func daysInMonth(m int) int {
	switch m {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		return 29
	}
	return 0
}

// Every day/month pair, including Feb 29, must map to exactly one sign.
func TestSignForTotal(t *testing.T) {
	counts := map[Sign]int{}
	total := 0
	for m := 1; m <= 12; m++ {
		for d := 1; d <= daysInMonth(m); d++ {
			sign := SignFor(d, m)
			if sign == "" {
				t.Fatalf("SignFor(%d, %d) returned empty sign", d, m)
			}
			counts[sign]++
			total++
		}
	}
	if total != 366 {
		t.Fatalf("covered %d day/month pairs, want 366", total)
	}
	if len(counts) != 12 {
		t.Fatalf("got %d distinct signs, want 12", len(counts))
	}
}

func TestSignForBoundaries(t *testing.T) {
	cases := []struct {
		day, month int
		want       Sign
	}{
		{21, 3, Aries},
		{19, 4, Aries},
		{20, 4, Taurus},
		{15, 3, Pisces},
		{22, 12, Capricorn},
		{31, 12, Capricorn},
		{1, 1, Capricorn},
		{19, 1, Capricorn},
		{20, 1, Aquarius},
		{18, 2, Aquarius},
		{19, 2, Pisces},
		{29, 2, Pisces},
		{20, 3, Pisces},
		{22, 11, Sagittarius},
		{21, 11, Scorpio},
	}
	for _, tc := range cases {
		if got := SignFor(tc.day, tc.month); got != tc.want {
			t.Errorf("SignFor(%d, %d) = %s, want %s", tc.day, tc.month, got, tc.want)
		}
	}
}

func TestTableListsAllSigns(t *testing.T) {
	table := Table()
	for _, sign := range []Sign{Aries, Taurus, Gemini, Cancer, Leo, Virgo, Libra, Scorpio, Sagittarius, Capricorn, Aquarius, Pisces} {
		if !strings.Contains(table, string(sign)) {
			t.Errorf("table missing %s", sign)
		}
	}
	if got := strings.Count(table, "\n"); got != 12 {
		t.Errorf("table has %d lines, want 12", got)
	}
}
