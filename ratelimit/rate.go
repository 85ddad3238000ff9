/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Acquirer is the contract every caller of a guarded action depends on.
// Acquire blocks until a permit is granted (nil error) or waiting is cancelled (error matching ErrCancelled).
// Each successful call consumes exactly one permit.
type Acquirer interface {
	Acquire(ctx context.Context) error
}

// AcquirerFunc is an adapter to allow the use of ordinary functions as Acquirer.
type AcquirerFunc func(ctx context.Context) error

// Acquire implements Acquirer interface.
func (f AcquirerFunc) Acquire(ctx context.Context) error {
	return f(ctx)
}

// Limiter is an Acquirer with a fixed rate that may own background resources.
type Limiter interface {
	Acquirer

	// Rate returns the rate the limiter was constructed with.
	Rate() Rate

	// Close releases resources owned by the limiter. Acquire calls made after Close may fail with ErrLimiterClosed.
	Close() error
}

// Rate describes the maximum number of permits (Count) that may be granted within one window (Duration).
type Rate struct {
	Count    int
	Duration time.Duration
}

// PerSecond returns a Rate of count permits per second.
func PerSecond(count int) Rate {
	return Rate{Count: count, Duration: time.Second}
}

// Validate checks that the rate may be used for limiting.
func (r Rate) Validate() error {
	if r.Count < 1 {
		return &ConfigError{Rate: r, Inner: ErrInvalidLimit}
	}
	if r.Duration <= 0 {
		return &ConfigError{Rate: r, Inner: ErrInvalidInterval}
	}
	return nil
}

// String returns a string representation of the rate (e.g. "10/s", "5/100ms").
// Implements fmt.Stringer interface.
func (r Rate) String() string {
	if r.Count == 0 && r.Duration == 0 {
		return ""
	}
	var d string
	switch r.Duration {
	case time.Second:
		d = "s"
	case time.Minute:
		d = "m"
	case time.Hour:
		d = "h"
	default:
		d = r.Duration.String()
	}
	return fmt.Sprintf("%d/%s", r.Count, d)
}

// ParseRate parses a rate in "N/unit" format where unit is one of "s", "m", "h" or any value
// accepted by time.ParseDuration (for example "10/s", "100/m", "5/100ms").
func ParseRate(s string) (Rate, error) {
	incorrectFormatErr := fmt.Errorf(
		"incorrect format for rate %q, should be N/(s|m|h|<duration>), for example 10/s, 100/m, 5/100ms", s)
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return Rate{}, incorrectFormatErr
	}
	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return Rate{}, incorrectFormatErr
	}
	var dur time.Duration
	switch unit := parts[1]; unit {
	case "s":
		dur = time.Second
	case "m":
		dur = time.Minute
	case "h":
		dur = time.Hour
	default:
		if dur, err = time.ParseDuration(unit); err != nil {
			return Rate{}, incorrectFormatErr
		}
	}
	r := Rate{Count: count, Duration: dur}
	if err = r.Validate(); err != nil {
		return Rate{}, err
	}
	return r, nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *Rate) UnmarshalText(text []byte) error {
	return r.unmarshal(string(text))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	return r.unmarshal(text)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (r *Rate) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}
	return r.unmarshal(text)
}

func (r *Rate) unmarshal(text string) error {
	if text == "" {
		*r = Rate{}
		return nil
	}
	parsed, err := ParseRate(text)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// MarshalYAML implements the yaml.Marshaler interface.
func (r Rate) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}
