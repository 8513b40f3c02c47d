package timeparse

import (
	"errors"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognized is returned when no date or time can be found in the input.
var ErrUnrecognized = errors.New("no recognizable date or time")

// Resolver turns free-text time expressions ("in 2 hours", "3pm tomorrow")
// into absolute instants, using the user's timezone as parsing context.
type Resolver struct {
	w         *when.Parser
	defaultTZ string
}

// New builds a Resolver with English and common parsing rules. defaultTZ is
// used when a user has no (or an invalid) timezone preference.
func New(defaultTZ string) *Resolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{w: w, defaultTZ: defaultTZ}
}

// Location resolves a zone name, falling back to the default zone and then
// UTC. A missing or bad timezone never fails resolution on its own, so flows
// that do not need timezone accuracy still work.
func (r *Resolver) Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if r.defaultTZ != "" {
		if loc, err := time.LoadLocation(r.defaultTZ); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Resolve interprets text in the user's timezone, relative to now.
func (r *Resolver) Resolve(text, tz string) (time.Time, error) {
	return r.ResolveFrom(text, tz, time.Now())
}

// Layouts accepted before natural-language parsing, so already-serialized
// instants round-trip without the NL parser.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
}

// ResolveFrom is Resolve with an explicit base instant, for deterministic
// callers and tests.
func (r *Resolver) ResolveFrom(text, tz string, base time.Time) (time.Time, error) {
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}

	loc := r.Location(tz)
	res, err := r.w.Parse(text, base.In(loc))
	if err != nil || res == nil {
		return time.Time{}, ErrUnrecognized
	}
	return res.Time, nil
}

// ValidateTZ checks that tz names a valid IANA location.
func ValidateTZ(tz string) (string, error) {
	if tz == "" {
		return "", errors.New("empty timezone")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// Clock formats t as HH:MM on the clock of the given location.
func Clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04")
}
