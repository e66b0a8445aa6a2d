package hal

const x11ShiftMask = 1 << 0

// Keycodes as assigned by the evdev keymap most X servers use.
var x11Keys = map[uint8]KeyCode{
	9:   KeyEscape,
	22:  KeyBackspace,
	23:  KeyTab,
	36:  KeyEnter,
	67:  KeyF1,
	68:  KeyF2,
	69:  KeyF3,
	110: KeyHome,
	111: KeyUp,
	113: KeyLeft,
	114: KeyRight,
	115: KeyEnd,
	116: KeyDown,
	119: KeyDelete,
}

var x11Rows = []struct {
	first uint8
	lower string
	upper string
}{
	{10, "1234567890-=", "!@#$%^&*()_+"},
	{24, "qwertyuiop[]", "QWERTYUIOP{}"},
	{38, "asdfghjkl;'`", "ASDFGHJKL:\"~"},
	{51, "\\zxcvbnm,./", "|ZXCVBNM<>?"},
}

// translateX11Key maps an evdev keycode to a KeyCode or a printable rune.
func translateX11Key(keycode uint8, shift bool) (KeyCode, rune) {
	if code, ok := x11Keys[keycode]; ok {
		switch code {
		case KeyEnter:
			return code, '\r'
		case KeyTab:
			return code, '\t'
		case KeyBackspace:
			return code, '\b'
		}
		return code, 0
	}
	if keycode == 65 {
		return KeyUnknown, ' '
	}
	for _, row := range x11Rows {
		if keycode < row.first || int(keycode-row.first) >= len(row.lower) {
			continue
		}
		i := keycode - row.first
		if shift {
			return KeyUnknown, rune(row.upper[i])
		}
		return KeyUnknown, rune(row.lower[i])
	}
	return KeyUnknown, 0
}
