package cronparser

import (
	"fmt"
	"strings"
	"time"

	cron "github.com/netresearch/go-cron"
)

var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Parser computes next cron occurrences using go-cron.
type Parser struct{}

// New creates a new cron parser.
func New() *Parser {
	return &Parser{}
}

// Validate checks that the spec (with optional tz) parses. Used at startup
// so a bad resync schedule fails the process instead of being discovered at
// its first occurrence.
func (p *Parser) Validate(spec, tz string) error {
	if _, err := _parser.Parse(buildSpec(spec, tz)); err != nil {
		return fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	return nil
}

// NextAfter returns the next cron occurrence strictly after `after`.
// If tz is non-empty and the spec has no CRON_TZ=/TZ= prefix, it prepends
// CRON_TZ=<tz>. Defaults to UTC when no tz is given.
func (p *Parser) NextAfter(spec, tz string, after time.Time) (time.Time, error) {
	schedule, err := _parser.Parse(buildSpec(spec, tz))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	return schedule.Next(after), nil
}

func buildSpec(spec, tz string) string {
	hasTZPrefix := strings.HasPrefix(spec, "CRON_TZ=") ||
		strings.HasPrefix(spec, "TZ=")

	if hasTZPrefix {
		return spec
	}

	if tz == "" {
		tz = "UTC"
	}

	return "CRON_TZ=" + tz + " " + spec
}
