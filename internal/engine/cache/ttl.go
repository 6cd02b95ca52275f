package cache

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Retention constants and defaults.
const (
	// DefaultRetention is how long completed sessions are kept (24 hours).
	DefaultRetention = 24 * time.Hour

	// MinRetention is the shortest accepted retention (1 minute).
	MinRetention = time.Minute

	// MaxRetention is the longest accepted retention (30 days).
	MaxRetention = 30 * hoursPerDay * time.Hour

	// minutesPerHour is used for duration formatting calculations.
	minutesPerHour = 60

	// hoursPerDay is used for duration formatting calculations.
	hoursPerDay = 24

	// EnvRetention overrides the session retention.
	EnvRetention = "CARBONFLOW_SESSION_RETENTION"
)

// ErrInvalidRetention reports a retention outside MinRetention..MaxRetention.
var ErrInvalidRetention = fmt.Errorf("retention must be between %s and %s",
	FormatDuration(MinRetention), FormatDuration(MaxRetention))

// ParseRetention parses a retention in one of these forms:
//   - Integer seconds: "3600".
//   - Duration string: "1h", "30m", "1h30m".
//   - Days, optionally followed by a duration: "3d", "2d12h".
func ParseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if seconds, err := strconv.Atoi(s); err == nil {
		return checkRetention(time.Duration(seconds) * time.Second)
	}

	var days time.Duration
	if i := strings.IndexByte(s, 'd'); i > 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid retention format: %q", s)
		}
		days = time.Duration(n) * hoursPerDay * time.Hour
		s = s[i+1:]
		if s == "" {
			return checkRetention(days)
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid retention format: %w", err)
	}
	return checkRetention(days + d)
}

func checkRetention(d time.Duration) (time.Duration, error) {
	if d < MinRetention || d > MaxRetention {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidRetention, d)
	}
	return d, nil
}

// RetentionFromEnv reads EnvRetention or returns fallback when it is unset
// or invalid.
func RetentionFromEnv(fallback time.Duration) time.Duration {
	v := os.Getenv(EnvRetention)
	if v == "" {
		return fallback
	}
	d, err := ParseRetention(v)
	if err != nil {
		return fallback
	}
	return d
}

// FormatDuration formats a duration compactly.
// Examples: "30s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
