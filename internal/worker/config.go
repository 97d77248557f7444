// Package worker provides background maintenance for the fuel station
// dataset: periodic snapshot refresh and coordinate backfill for stations
// that have not been geocoded yet.
package worker

import "time"

// RefreshConfig holds configuration for the dataset refresh job.
type RefreshConfig struct {
	// Interval is how often the job runs.
	// Default: 6 hours
	Interval time.Duration

	// GeocodeBatchLimit caps how many stations are geocoded per run.
	// Negative means no limit.
	// Default: 25
	GeocodeBatchLimit int

	// GeocodeSleep is the pause between geocoding calls. The free
	// OpenCage tier is rate limited per second.
	// Default: 1 second
	GeocodeSleep time.Duration

	// Timeout bounds a single run.
	// Default: 5 minutes
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval:          6 * time.Hour,
		GeocodeBatchLimit: 25,
		GeocodeSleep:      time.Second,
		Timeout:           5 * time.Minute,
	}
}

// withDefaults fills zero fields with defaults. A negative
// GeocodeBatchLimit means unlimited and is normalized to zero.
func (c RefreshConfig) withDefaults() RefreshConfig {
	defaults := DefaultRefreshConfig()
	if c.Interval == 0 {
		c.Interval = defaults.Interval
	}
	if c.GeocodeBatchLimit == 0 {
		c.GeocodeBatchLimit = defaults.GeocodeBatchLimit
	}
	if c.GeocodeBatchLimit < 0 {
		c.GeocodeBatchLimit = 0
	}
	if c.GeocodeSleep == 0 {
		c.GeocodeSleep = defaults.GeocodeSleep
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}
