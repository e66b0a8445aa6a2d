package x11fb

import (
	"errors"
	"testing"
)

func TestErrorTrap(t *testing.T) {
	errAsync := errors.New("BadAccess")

	tests := []struct {
		name  string
		setup func(f *fakeDisplay)
		op    error
		want  error
	}{
		{name: "clean"},
		{name: "op error", op: errRefused, want: errRefused},
		{
			name:  "async error",
			setup: func(f *fakeDisplay) { f.async["ShmAttach"] = errAsync },
			want:  errAsync,
		},
		{
			name:  "op error wins",
			setup: func(f *fakeDisplay) { f.async["ShmAttach"] = errAsync },
			op:    errRefused,
			want:  errRefused,
		},
		{
			name:  "sync error",
			setup: func(f *fakeDisplay) { f.fail["Sync"] = errRefused },
			want:  errRefused,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := &callLog{}
			f := newFakeDisplay(log, newFakeShm(log), 24)
			if tc.setup != nil {
				tc.setup(f)
			}
			var outer []error
			f.SetErrorHandler(func(err error) { outer = append(outer, err) })

			err := withErrorTrap(f, func() error {
				_, _ = f.ShmAttach(1, false)
				return tc.op
			})
			if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
			if log.index("Sync") < log.index("ShmAttach") {
				t.Fatalf("trap did not sync after the operation: %v", log.calls)
			}
			if len(outer) != 0 {
				t.Fatalf("trapped error leaked to the outer handler: %v", outer)
			}

			f.async = map[string]error{"Sync": errAsync}
			f.fail = map[string]error{}
			_ = f.Sync()
			if len(outer) != 1 {
				t.Fatalf("previous handler not restored: %v", outer)
			}
		})
	}
}
