package main

import (
	"log"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/loop"
	"github.com/ayusman/mudra/internal/server"
)

// source bundles the landmark source with its optional preview.
type source struct {
	name      string
	landmarks app.LandmarkSource
	preview   server.FrameSource
	close     func() error
}

func (s source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSource builds the demo script or the camera pipeline. The camera is
// opened lazily by the first read, so access errors surface from app.Run.
func openSource(cfg config.Config) (source, error) {
	if cfg.Demo {
		log.Println("Demo mode: replaying scripted poses")
		scripted := capture.NewScriptedSource(capture.DemoScript(), true)
		scripted.SetInterval(loop.FPS(cfg.Capture.ActiveFPS))
		return source{name: "demo", landmarks: scripted}, nil
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        1,
		MinConfidence:   cfg.Detector.MinDetection,
		MinTrackingConf: cfg.Detector.MinTracking,
		ScriptPath:      cfg.Detector.ScriptPath,
	})
	var hd detector.Detector = det
	if err != nil {
		if !cfg.Detector.FallbackToMock {
			return source{}, err
		}
		log.Printf("MediaPipe unavailable, no hands will be detected: %v", err)
		hd = detector.NewMockDetector()
	} else {
		log.Println("Using MediaPipe hand detector")
	}

	hands := capture.NewHandSource(capture.NewCamera(cfg.Capture.Camera), hd, capture.HandSourceConfig{
		IdleFPS:         cfg.Capture.IdleFPS,
		ActiveFPS:       cfg.Capture.ActiveFPS,
		IdleTimeout:     cfg.Capture.IdleTimeout,
		MotionThreshold: cfg.Capture.MotionThreshold,
		KeepPreview:     true,
	})
	return source{name: "camera", landmarks: hands, preview: hands, close: hands.Close}, nil
}
