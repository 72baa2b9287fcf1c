package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a configured duration, returning fallback when the
// value is empty or malformed. Config validation rejects malformed values
// up front, so the warning only fires for optional settings.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
