package x11fb

// EventKind classifies a raw window event.
type EventKind uint8

const (
	EventMotion EventKind = iota + 1
	EventButtonPress
	EventButtonRelease
	EventKeyPress
	EventKeyRelease
)

func (k EventKind) String() string {
	switch k {
	case EventMotion:
		return "motion"
	case EventButtonPress:
		return "button-press"
	case EventButtonRelease:
		return "button-release"
	case EventKeyPress:
		return "key-press"
	case EventKeyRelease:
		return "key-release"
	}
	return "unknown"
}

// Event is a pointer or keyboard event as the server reported it.
// X and Y are window relative. Button is set for button events and
// Keycode for key events; State carries the modifier and button mask.
type Event struct {
	Kind    EventKind
	X, Y    int
	Button  uint8
	Keycode uint8
	State   uint16
}

// PollEvent returns the next queued window event without blocking.
// Events read while the device synchronized with the server are queued,
// not dropped. It reports false when nothing is pending or the device
// is not initialized.
func (d *Device) PollEvent() (Event, bool) {
	if d.state != StateReady {
		return Event{}, false
	}
	return d.dpy.PollEvent()
}
