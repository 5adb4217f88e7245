package tray

import "testing"

func TestTitles(t *testing.T) {
	if got := toggleTitle(true); got != "● Enabled" {
		t.Errorf("toggleTitle(true) = %q", got)
	}
	if got := toggleTitle(false); got != "○ Disabled" {
		t.Errorf("toggleTitle(false) = %q", got)
	}

	tests := []struct {
		pose, action, want string
	}{
		{"", "", "Pose: NONE  Last: none"},
		{"PALM", "onSwipeRight", "Pose: PALM  Last: onSwipeRight"},
		{"FIST", "", "Pose: FIST  Last: none"},
	}
	for _, tt := range tests {
		if got := statusTitle(tt.pose, tt.action); got != tt.want {
			t.Errorf("statusTitle(%q, %q) = %q, want %q", tt.pose, tt.action, got, tt.want)
		}
	}
}

func TestToggle_WithoutMenu(t *testing.T) {
	var got []bool
	tr := New(true, Handlers{OnToggle: func(enabled bool) { got = append(got, enabled) }})

	tr.handleToggle()
	tr.handleToggle()
	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("OnToggle calls = %v, want [false true]", got)
	}
	if !tr.IsEnabled() {
		t.Error("IsEnabled() = false after two toggles")
	}

	tr.SetEnabled(false)
	if tr.IsEnabled() {
		t.Error("SetEnabled(false) not applied")
	}
	tr.SetStatus("OK", "onLock")
	if tr.pose != "OK" || tr.action != "onLock" {
		t.Errorf("status = %q %q", tr.pose, tr.action)
	}
}
