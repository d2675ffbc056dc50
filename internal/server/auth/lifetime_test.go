package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"15m", 15 * time.Minute},
		{"12h", 12 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLifetime(tc.in, time.Minute), "input %q", tc.in)
	}
}

func TestParseLifetime_FallbackOnGarbage(t *testing.T) {
	for _, in := range []string{"", "15", "m15", "15 m", "15w", "-3m", "1.5h"} {
		assert.Equal(t, DefaultAccessTokenLifetime,
			ParseLifetime(in, DefaultAccessTokenLifetime), "input %q", in)
	}
}
