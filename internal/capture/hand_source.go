package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/detector/landmark"
	"gocv.io/x/gocv"
)

// HandSourceConfig tunes capture pacing.
type HandSourceConfig struct {
	IdleFPS         int
	ActiveFPS       int
	IdleTimeout     time.Duration
	MotionThreshold float64
	// KeepPreview keeps the latest frame JPEG-encoded for LastJPEG.
	KeepPreview bool
}

// DefaultHandSourceConfig returns 5/15 fps pacing with a 2s idle timeout.
func DefaultHandSourceConfig() HandSourceConfig {
	return HandSourceConfig{
		IdleFPS:         5,
		ActiveFPS:       DefaultFPS,
		IdleTimeout:     2 * time.Second,
		MotionThreshold: DefaultMotionThreshold,
		KeepPreview:     true,
	}
}

// HandSource turns camera frames into at most one hand per frame.
type HandSource struct {
	camera   Camera
	detector detector.Detector
	motion   *MotionDetector
	governor RateGovernor
	cfg      HandSourceConfig
	now      func() time.Time

	mu     sync.Mutex
	opened bool
	frames uint64

	previewMu sync.Mutex
	lastJPEG  []byte
}

// NewHandSource pairs a camera with a landmark detector. The camera is opened
// lazily on the first Next.
func NewHandSource(cam Camera, det detector.Detector, cfg HandSourceConfig) *HandSource {
	return &HandSource{
		camera:   cam,
		detector: det,
		motion:   NewMotionDetector(cfg.MotionThreshold),
		governor: RateGovernor{
			IdleFPS:     cfg.IdleFPS,
			ActiveFPS:   cfg.ActiveFPS,
			IdleTimeout: cfg.IdleTimeout,
		},
		cfg: cfg,
		now: time.Now,
	}
}

// Next reads one frame and returns the first detected hand, or nil when no
// hand is visible. A camera that cannot be opened yields *CameraAccessError.
func (s *HandSource) Next(ctx context.Context) (*landmark.HandLandmarks, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		if err := s.camera.Open(); err != nil {
			return nil, fmt.Errorf("open camera: %w", err)
		}
		s.camera.SetFPS(s.cfg.IdleFPS)
		s.opened = true
		log.Printf("Camera opened at %d fps", s.camera.FPS())
	}

	frame, err := s.camera.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()
	s.frames++

	if s.cfg.KeepPreview {
		if buf, err := gocv.IMEncode(".jpg", *frame); err == nil {
			s.previewMu.Lock()
			s.lastJPEG = append(s.lastJPEG[:0], buf.GetBytes()...)
			s.previewMu.Unlock()
			buf.Close()
		}
	}

	moved, _ := s.motion.Detect(frame)

	hands, err := s.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}
	hand := landmark.First(hands)

	if fps := s.governor.Observe(moved || hand != nil, s.now()); fps > 0 {
		s.camera.SetFPS(fps)
		if s.governor.Active() {
			log.Printf("Switched to active capture (%d fps)", fps)
		} else {
			log.Printf("Switched to idle capture (%d fps)", fps)
		}
	}
	return hand, nil
}

// LastJPEG returns a copy of the most recent frame as JPEG, or nil.
func (s *HandSource) LastJPEG() []byte {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()
	if len(s.lastJPEG) == 0 {
		return nil
	}
	return append([]byte(nil), s.lastJPEG...)
}

// Frames returns how many frames have been read.
func (s *HandSource) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Close releases the camera, the detector and the motion baseline.
func (s *HandSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.motion.Close()
	s.opened = false
	return errors.Join(s.camera.Close(), s.detector.Close())
}
