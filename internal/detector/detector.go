// Package detector provides the backends that turn camera frames into hand
// landmarks.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector/landmark"
)

// Detector defines the interface for hand landmark inference backends.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]landmark.HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect. Only the first is tracked.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the mediapipe_service.py lookup when set.
	ScriptPath string
}

// DefaultConfig returns a Config for single-hand tracking.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
