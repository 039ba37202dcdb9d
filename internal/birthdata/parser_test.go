package birthdata

import (
	"errors"
	"testing"
)

func TestParseNormalizes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain date", "15.03.1990", "15.03.1990 12:00"},
		{"date with time", "15.03.1990 08:45", "15.03.1990 08:45"},
		{"single digit day and month", "1.2.2000", "01.02.2000 12:00"},
		{"surrounding text", "born 7.11.1985 in Riga around 23:15", "07.11.1985 23:15"},
		{"leap day", "29.02.2000 00:00", "29.02.2000 00:00"},
		{"unpadded hour", "5.6.1999 9:05", "05.06.1999 09:05"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.in, err)
			}
			if got.String() != tc.want {
				t.Fatalf("Parse(%q) = %q, want %q", tc.in, got.String(), tc.want)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no date", "hello there"},
		{"month 13", "15.13.1990"},
		{"feb 30", "30.02.1991"},
		{"feb 29 non leap", "29.02.1900"},
		{"two digit year", "15.03.90"},
		{"day zero", "0.03.1990"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.in); !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("Parse(%q) err = %v, want ErrInvalidFormat", tc.in, err)
			}
		})
	}
}

func TestParseInvalidClockFallsBack(t *testing.T) {
	// A malformed clock token is ignored, not an error.
	got, err := Parse("15.03.1990 99:99")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.String() != "15.03.1990 12:00" {
		t.Fatalf("got %q, want default time", got.String())
	}
}
