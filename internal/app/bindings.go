package app

import (
	"github.com/ayusman/mudra/internal/dispatch"
)

// Time scales set by the speed gestures.
const (
	SpeedUpScale = 5
	RewindScale  = -2
)

// OrbitScene is the set of controls the gestures drive. *scene.Controller
// implements it.
type OrbitScene interface {
	SetZoom(scale float64)
	HandleDrag(dx, dy float64)
	ResumeOrbit()
	SetTimeScale(scale float64)
	ToggleHelp()
	ToggleLock()
	SpawnComet() int
	SelectNextEntity()
	SelectPreviousEntity()
}

// Bindings maps every action onto s.
func Bindings(s OrbitScene) dispatch.Handlers {
	return dispatch.Handlers{
		OnZoom:       s.SetZoom,
		OnDrag:       s.HandleDrag,
		OnReset:      s.ResumeOrbit,
		OnSpeedUp:    func() { s.SetTimeScale(SpeedUpScale) },
		OnRewind:     func() { s.SetTimeScale(RewindScale) },
		OnToggleHelp: s.ToggleHelp,
		OnLock:       s.ToggleLock,
		OnComet:      func() { s.SpawnComet() },
		OnSwipeLeft:  s.SelectPreviousEntity,
		OnSwipeRight: s.SelectNextEntity,
	}
}
