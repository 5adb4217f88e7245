package pose

import (
	"encoding/json"
	"fmt"
)

// Label is a discrete hand pose.
type Label int

const (
	// None means no hand was detected this frame.
	None Label = iota
	Unknown
	Palm
	Fist
	ThumbsUp
	ThumbsDown
	Rock
	Peace
	OK
	Pinch
)

var labelNames = [...]string{
	None:       "NONE",
	Unknown:    "UNKNOWN",
	Palm:       "PALM",
	Fist:       "FIST",
	ThumbsUp:   "THUMBS_UP",
	ThumbsDown: "THUMBS_DOWN",
	Rock:       "ROCK",
	Peace:      "PEACE",
	OK:         "OK",
	Pinch:      "PINCH",
}

// Labels lists every label in declaration order.
func Labels() []Label {
	out := make([]Label, len(labelNames))
	for i := range labelNames {
		out[i] = Label(i)
	}
	return out
}

func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("Label(%d)", int(l))
	}
	return labelNames[l]
}

// ParseLabel converts a label name back to a Label.
func ParseLabel(s string) (Label, error) {
	for i, name := range labelNames {
		if name == s {
			return Label(i), nil
		}
	}
	return None, fmt.Errorf("unknown pose label %q", s)
}

// MarshalJSON encodes the label by name.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a label name.
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
