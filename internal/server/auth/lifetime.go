package auth

import (
	"regexp"
	"strconv"
	"time"
)

// Default token lifetimes, used when the configured value does not parse.
const (
	DefaultAccessTokenLifetime  = 15 * time.Minute
	DefaultRefreshTokenLifetime = 7 * 24 * time.Hour
)

var lifetimeRe = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseLifetime converts an "<integer><unit>" string ("30s", "15m", "12h",
// "7d") into a duration. An unparsable value returns fallback rather than an
// error, so a bad env var degrades to the documented default.
func ParseLifetime(value string, fallback time.Duration) time.Duration {
	m := lifetimeRe.FindStringSubmatch(value)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second
	case "m":
		return time.Duration(n) * time.Minute
	case "h":
		return time.Duration(n) * time.Hour
	case "d":
		return time.Duration(n) * 24 * time.Hour
	}
	return fallback
}
