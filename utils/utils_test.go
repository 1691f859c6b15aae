package utils

import "testing"

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{9, "00:09"},
		{60, "01:00"},
		{419, "06:59"},
		{420, "07:00"},
		{600, "10:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.seconds); got != tc.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestIsValidDateISO(t *testing.T) {
	valid := []string{"2025-07-12", "2024-02-29", "1999-12-31"}
	for _, s := range valid {
		if !IsValidDateISO(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "12/07/2025", "2025-13-01", "2025-07-32", "2025-7-1", "yesterday"}
	for _, s := range invalid {
		if IsValidDateISO(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestTodayISOIsValid(t *testing.T) {
	if got := TodayISO(); !IsValidDateISO(got) {
		t.Errorf("TodayISO returned %q", got)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("segredo123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("segredo123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("errado", hash) {
		t.Error("wrong password accepted")
	}
}
