package news

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptyRequest     = errors.New("request has no usable keywords or company targets")
	ErrInvalidTimeRange = errors.New("time range start is after end")
)

// TimeRange is either a named preset or an explicit from/to pair. An empty
// range resolves to the 7d preset.
type TimeRange struct {
	Preset string     `json:"preset,omitempty" yaml:"preset,omitempty"`
	From   *time.Time `json:"from,omitempty" yaml:"from,omitempty"`
	To     *time.Time `json:"to,omitempty" yaml:"to,omitempty"`
}

var presetWindows = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"3d":  3 * 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

const defaultPreset = "7d"

// Resolve returns the concrete window for the range. Custom ranges with
// from > to are rejected rather than clamped so the caller sees the mistake
// instead of an empty result.
func (tr TimeRange) Resolve(now time.Time) (time.Time, time.Time, error) {
	if tr.From != nil || tr.To != nil {
		from, to := now.Add(-presetWindows[defaultPreset]), now
		if tr.From != nil {
			from = *tr.From
		}
		if tr.To != nil {
			to = *tr.To
		}
		if from.After(to) {
			return time.Time{}, time.Time{}, ErrInvalidTimeRange
		}
		return from, to, nil
	}

	preset := tr.Preset
	if preset == "" {
		preset = defaultPreset
	}
	window, ok := presetWindows[preset]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown time range preset %q", preset)
	}
	return now.Add(-window), now, nil
}

// Contains reports whether ts falls inside the resolved window.
func Contains(from, to, ts time.Time) bool {
	return !ts.Before(from) && !ts.After(to)
}
