package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/loop"
)

// VideoHandler serves the camera preview as MJPEG.
type VideoHandler struct {
	source   FrameSource
	interval time.Duration
}

// NewVideoHandler creates a VideoHandler polling source fps times per second.
func NewVideoHandler(source FrameSource, fps int) *VideoHandler {
	return &VideoHandler{source: source, interval: loop.FPS(fps)}
}

// ServeHTTP streams MJPEG frames until the client goes away. A frame is only
// written when the preview has changed.
func (h *VideoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var last []byte
	write := func() {
		buf := h.source.LastJPEG()
		if len(buf) == 0 || bytes.Equal(buf, last) {
			return
		}
		last = buf

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
		w.Write(buf)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	write()
	loop.Every(r.Context(), h.interval, write)
}
