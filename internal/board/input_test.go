package board

import "testing"

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		choice, custom string
		fallback       int
		want           int
	}{
		{"30", "", 30, 30},
		{"60", "", 30, 60},
		{"90", "15", 30, 90},
		{"custom", "45", 30, 45},
		{"custom", " 1 ", 30, 1},
		{"custom", "999", 30, 999},
		{"custom", "", 30, 30},
		{"custom", "abc", 30, 30},
		{"custom", "0", 30, 30},
		{"custom", "-4", 30, 30},
		{"custom", "1000", 30, 30},
		{"custom", "", 0, DefaultMinutes},
		{"custom", "", 25, 25},
		{"", "", 30, 30},
	}
	for _, tt := range tests {
		got := ParseMinutes(tt.choice, tt.custom, tt.fallback)
		if got != tt.want {
			t.Errorf("ParseMinutes(%q, %q, %d) = %d, want %d", tt.choice, tt.custom, tt.fallback, got, tt.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusStopped, StatusRunning, StatusPaused, StatusOvertime} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("expired").Valid() {
		t.Error("unknown status reported valid")
	}
}
