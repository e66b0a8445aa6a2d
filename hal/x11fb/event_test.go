package x11fb

import (
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestTranslateEvent(t *testing.T) {
	tests := []struct {
		in   xgb.Event
		want Event
	}{
		{
			in:   xproto.MotionNotifyEvent{EventX: 10, EventY: 20, State: xproto.KeyButMaskButton1},
			want: Event{Kind: EventMotion, X: 10, Y: 20, State: xproto.KeyButMaskButton1},
		},
		{
			in:   xproto.ButtonPressEvent{Detail: 1, EventX: 5, EventY: 6},
			want: Event{Kind: EventButtonPress, X: 5, Y: 6, Button: 1},
		},
		{
			in:   xproto.ButtonReleaseEvent{Detail: 3, EventX: 7, EventY: 8},
			want: Event{Kind: EventButtonRelease, X: 7, Y: 8, Button: 3},
		},
		{
			in:   xproto.KeyPressEvent{Detail: 38},
			want: Event{Kind: EventKeyPress, Keycode: 38},
		},
		{
			in:   xproto.KeyReleaseEvent{Detail: 38, State: xproto.ModMaskShift},
			want: Event{Kind: EventKeyRelease, Keycode: 38, State: xproto.ModMaskShift},
		},
	}
	for _, tc := range tests {
		got, ok := translateEvent(tc.in)
		if !ok || got != tc.want {
			t.Fatalf("translateEvent(%T) = %+v, %v; want %+v", tc.in, got, ok, tc.want)
		}
	}

	if _, ok := translateEvent(xproto.ExposeEvent{}); ok {
		t.Fatal("expose translated")
	}
}

func TestEventKindString(t *testing.T) {
	if EventButtonPress.String() != "button-press" || EventKind(0).String() != "unknown" {
		t.Fatal("unexpected EventKind names")
	}
}
