// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Face matching constants
const (
	// DefaultDistanceThreshold is the mean landmark distance (pixels) below
	// which a stored face slot matches a live one. Lower values = stricter matching
	DefaultDistanceThreshold = 50.0

	// LandmarkCount is the number of points produced per face by the
	// 68-point landmark predictor
	LandmarkCount = 68

	// MaxPersonIDLength matches the VARCHAR(64) person_id columns
	MaxPersonIDLength = 64
)

// Capture constants
const (
	// DefaultDetectionWindow bounds a single capture session
	DefaultDetectionWindow = 10 * time.Second

	// DefaultPollInterval is the pause between frame requests to the landmark service
	DefaultPollInterval = 100 * time.Millisecond
)

// Listing constants
const (
	// DefaultHistoryLimit is the default number of attendance records returned
	DefaultHistoryLimit = 50

	// MaxHistoryLimit caps the history page size accepted from callers
	MaxHistoryLimit = 1000
)
