package board

import (
	"strconv"
	"strings"
)

// CustomPreset is the preset choice that reads minutes from the custom field.
const CustomPreset = "custom"

// Duration limits of the add form.
const (
	DefaultMinutes   = 30
	MaxCustomMinutes = 999
)

// DefaultPresets are the selectable durations in minutes.
var DefaultPresets = []int{30, 60, 90}

// ParseMinutes turns the add form's preset choice and custom field into a
// duration. An empty or invalid value falls back to fallback (or
// DefaultMinutes when fallback is not positive).
func ParseMinutes(choice, custom string, fallback int) int {
	if fallback < 1 {
		fallback = DefaultMinutes
	}
	choice = strings.TrimSpace(choice)
	if choice == CustomPreset {
		choice = strings.TrimSpace(custom)
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > MaxCustomMinutes {
		return fallback
	}
	return n
}
