// Package gesture turns per-frame pose labels into debounced actions.
package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/pose"
)

// Action identifies one entry of the dispatch table.
type Action int

const (
	ActionZoom Action = iota
	ActionDrag
	ActionReset
	ActionSpeedUp
	ActionRewind
	ActionToggleHelp
	ActionLock
	ActionComet
	ActionSwipeLeft
	ActionSwipeRight

	numActions
)

var actionNames = [numActions]string{
	ActionZoom:       "onZoom",
	ActionDrag:       "onDrag",
	ActionReset:      "onReset",
	ActionSpeedUp:    "onSpeedUp",
	ActionRewind:     "onRewind",
	ActionToggleHelp: "onToggleHelp",
	ActionLock:       "onLock",
	ActionComet:      "onComet",
	ActionSwipeLeft:  "onSwipeLeft",
	ActionSwipeRight: "onSwipeRight",
}

// Actions lists every action in declaration order.
func Actions() []Action {
	out := make([]Action, numActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Valid reports whether a is a declared action.
func (a Action) Valid() bool {
	return a >= 0 && a < numActions
}

// Continuous reports whether the action streams every frame while a pose is
// held, as opposed to firing once per cooldown window.
func (a Action) Continuous() bool {
	switch a {
	case ActionZoom, ActionDrag, ActionSpeedUp, ActionRewind:
		return true
	}
	return false
}

// ParseAction converts a wire name such as "onLock" to an Action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// MarshalText encodes the action by its wire name.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a wire name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Event is one debounced output. X carries the zoom scale or the drag dx;
// Y carries the drag dy. Discrete actions leave both zero.
type Event struct {
	Action Action     `json:"action"`
	Pose   pose.Label `json:"pose"`
	X      float64    `json:"x,omitempty"`
	Y      float64    `json:"y,omitempty"`
}

func (e Event) String() string {
	switch e.Action {
	case ActionZoom:
		return fmt.Sprintf("%s(%.3f)", e.Action, e.X)
	case ActionDrag:
		return fmt.Sprintf("%s(%.3f, %.3f)", e.Action, e.X, e.Y)
	}
	return e.Action.String()
}
