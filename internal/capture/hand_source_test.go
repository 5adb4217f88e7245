package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/detector/landmark"
)

func newTestHandSource(t *testing.T) (*HandSource, *MockCamera, *detector.MockDetector) {
	t.Helper()
	cam := NewBlankCamera(64, 48)
	t.Cleanup(cam.Release)
	det := detector.NewMockDetector()
	return NewHandSource(cam, det, DefaultHandSourceConfig()), cam, det
}

func TestHandSource_FirstHand(t *testing.T) {
	src, cam, det := newTestHandSource(t)
	defer src.Close()

	fist := landmark.FistLandmarks()
	palm := landmark.OpenPalmLandmarks()
	det.SetHands([]landmark.HandLandmarks{fist, palm})

	h, err := src.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if h == nil || h.Points != fist.Points {
		t.Errorf("Next() should return the first hand, got %v", h)
	}
	if !cam.IsOpen() {
		t.Error("camera should be opened lazily by Next")
	}
	if src.Frames() != 1 || det.Calls() != 1 {
		t.Errorf("frames=%d detector calls=%d, want 1/1", src.Frames(), det.Calls())
	}
	if len(src.LastJPEG()) == 0 {
		t.Error("expected a preview JPEG after one frame")
	}
}

func TestHandSource_NoHand(t *testing.T) {
	src, _, _ := newTestHandSource(t)
	defer src.Close()

	h, err := src.Next(context.Background())
	if err != nil || h != nil {
		t.Errorf("Next() = %v, %v; want nil, nil", h, err)
	}
}

func TestHandSource_CameraAccessError(t *testing.T) {
	cam := NewMockCamera(nil, false)
	cam.FailOpen(errors.New("denied"))
	src := NewHandSource(cam, detector.NewMockDetector(), DefaultHandSourceConfig())

	_, err := src.Next(context.Background())
	var access *CameraAccessError
	if !errors.As(err, &access) {
		t.Fatalf("Next() error = %v, want *CameraAccessError", err)
	}
}

func TestHandSource_DetectorError(t *testing.T) {
	src, _, det := newTestHandSource(t)
	defer src.Close()

	boom := errors.New("inference failed")
	det.SetError(boom)
	if _, err := src.Next(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Next() error = %v, want wrapped %v", err, boom)
	}
}

func TestHandSource_CancelledContext(t *testing.T) {
	src, cam, _ := newTestHandSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
	if cam.IsOpen() {
		t.Error("camera should not open for a cancelled context")
	}
}

func TestHandSource_RaisesRateWhileHandVisible(t *testing.T) {
	src, cam, det := newTestHandSource(t)
	defer src.Close()

	now := time.Unix(0, 0)
	src.now = func() time.Time { return now }

	src.Next(context.Background())
	if got := cam.FPS(); got != src.cfg.IdleFPS {
		t.Fatalf("FPS after idle frame = %d, want %d", got, src.cfg.IdleFPS)
	}

	det.SetHands([]landmark.HandLandmarks{landmark.FistLandmarks()})
	src.Next(context.Background())
	if got := cam.FPS(); got != src.cfg.ActiveFPS {
		t.Fatalf("FPS with hand = %d, want %d", got, src.cfg.ActiveFPS)
	}

	det.SetHands(nil)
	now = now.Add(3 * time.Second)
	src.Next(context.Background())
	if got := cam.FPS(); got != src.cfg.IdleFPS {
		t.Errorf("FPS after idle timeout = %d, want %d", got, src.cfg.IdleFPS)
	}
}
