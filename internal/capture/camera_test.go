package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	for _, id := range []int{0, 1, 2} {
		cam := NewCamera(id)
		if cam == nil {
			t.Fatalf("NewCamera(%d) returned nil", id)
		}
		if got := cam.FPS(); got != DefaultFPS {
			t.Errorf("NewCamera(%d).FPS() = %d, want %d", id, got, DefaultFPS)
		}
		if cam.IsOpen() {
			t.Errorf("NewCamera(%d) should not be open", id)
		}
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{"set to 10", 10, 10},
		{"set to 30", 30, 30},
		{"set to 1", 1, 1},
		{"zero keeps previous", 0, 1},
		{"negative keeps previous", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0)
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestCameraAccessError(t *testing.T) {
	denied := errors.New("permission denied")
	var err error = &CameraAccessError{DeviceID: 3, Err: denied}

	if !errors.Is(err, denied) {
		t.Error("CameraAccessError should unwrap to its cause")
	}
	var access *CameraAccessError
	if !errors.As(err, &access) || access.DeviceID != 3 {
		t.Errorf("errors.As failed for %v", err)
	}
	if got := err.Error(); got != "camera 3 unavailable: permission denied" {
		t.Errorf("Error() = %q", got)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		var access *CameraAccessError
		if !errors.As(err, &access) {
			t.Errorf("Open() error %v should be a *CameraAccessError", err)
		}
		t.Skipf("camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should be true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() error = %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned an empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should be false after Close()")
	}
}
