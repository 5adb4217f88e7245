package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func newFrames(n int) []gocv.Mat {
	frames := make([]gocv.Mat, n)
	for i := range frames {
		frames[i] = gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	}
	return frames
}

func TestMockCamera_Playback(t *testing.T) {
	cam := NewMockCamera(newFrames(2), false)
	defer cam.Release()

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("ReadFrame() after playback error = %v, want ErrNoFrames", err)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewMockCamera(newFrames(1), true)
	defer cam.Release()
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_FailOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)
	cam.FailOpen(errors.New("not authorized"))

	err := cam.Open()
	var access *CameraAccessError
	if !errors.As(err, &access) {
		t.Fatalf("Open() error = %v, want *CameraAccessError", err)
	}
	if cam.IsOpen() {
		t.Error("camera should stay closed after a failed Open")
	}
}

func TestBlankCamera(t *testing.T) {
	cam := NewBlankCamera(64, 48)
	defer cam.Release()
	cam.Open()

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer f.Close()
	if f.Cols() != 64 || f.Rows() != 48 {
		t.Errorf("frame size = %dx%d, want 64x48", f.Cols(), f.Rows())
	}
}
