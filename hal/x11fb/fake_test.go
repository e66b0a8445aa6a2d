package x11fb

import (
	"errors"
	"fmt"
)

var errRefused = errors.New("refused")

// callLog is shared by the fake display and the fake shared memory so
// tests can check the order of operations across both.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) count(name string) int {
	n := 0
	for _, c := range l.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (l *callLog) index(name string) int {
	for i, c := range l.calls {
		if c == name {
			return i
		}
	}
	return -1
}

type fakeFormat struct {
	bpp int
	pad int
}

type fakeDisplay struct {
	log *callLog
	shm *fakeShm

	depth   int
	formats map[int]fakeFormat
	hasShm  bool

	// fail makes the named call return an error; async delivers the error
	// through the handler on the next Sync instead.
	fail  map[string]error
	async map[string]error

	handler func(error)
	queued  []error

	nextID   uint32
	windows  map[Window]bool
	gcs      map[GC]bool
	segments map[Segment]int
	grabbed  bool
	mapped   bool
	closed   bool

	props WMProperties
	input EventMask

	refuseColor int
	colors      []Color

	displayed []byte
	events    []Event
}

func newFakeDisplay(log *callLog, shm *fakeShm, depth int) *fakeDisplay {
	return &fakeDisplay{
		log:   log,
		shm:   shm,
		depth: depth,
		formats: map[int]fakeFormat{
			1:  {bpp: 1, pad: 32},
			8:  {bpp: 8, pad: 32},
			15: {bpp: 16, pad: 32},
			16: {bpp: 16, pad: 32},
			24: {bpp: 32, pad: 32},
			32: {bpp: 32, pad: 32},
		},
		hasShm:      true,
		fail:        map[string]error{},
		async:       map[string]error{},
		windows:     map[Window]bool{},
		gcs:         map[GC]bool{},
		segments:    map[Segment]int{},
		refuseColor: -1,
	}
}

func (f *fakeDisplay) call(name string) error {
	f.log.add("%s", name)
	if err, ok := f.async[name]; ok {
		f.queued = append(f.queued, err)
	}
	return f.fail[name]
}

func (f *fakeDisplay) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *fakeDisplay) DefaultScreen() Screen {
	return Screen{Root: 1000, DefaultColormap: 2000, BlackPixel: 0, WhitePixel: 0xFFFFFF, Width: 1920, Height: 1080}
}

func (f *fakeDisplay) RootDepth() (int, error) {
	if err := f.call("RootDepth"); err != nil {
		return 0, err
	}
	return f.depth, nil
}

func (f *fakeDisplay) CreateWindow(parent Window, spec WindowSpec) (Window, error) {
	if err := f.call("CreateWindow"); err != nil {
		return 0, err
	}
	w := Window(f.id())
	f.windows[w] = true
	return w, nil
}

func (f *fakeDisplay) DestroyWindow(w Window) error {
	delete(f.windows, w)
	return f.call("DestroyWindow")
}

func (f *fakeDisplay) SetWMProperties(w Window, p WMProperties) error {
	f.props = p
	return f.call("SetWMProperties")
}

func (f *fakeDisplay) SelectInput(w Window, mask EventMask) error {
	f.input = mask
	return f.call("SelectInput")
}

func (f *fakeDisplay) GrabButton(w Window, button uint8, mask EventMask) error {
	if err := f.call("GrabButton"); err != nil {
		return err
	}
	f.grabbed = true
	return nil
}

func (f *fakeDisplay) UngrabButton(w Window, button uint8) error {
	f.grabbed = false
	return f.call("UngrabButton")
}

func (f *fakeDisplay) MapWindow(w Window) error {
	f.mapped = true
	return f.call("MapWindow")
}

func (f *fakeDisplay) UnmapWindow(w Window) error {
	f.mapped = false
	return f.call("UnmapWindow")
}

func (f *fakeDisplay) CreateGC(w Window, graphicsExposures bool) (GC, error) {
	if err := f.call("CreateGC"); err != nil {
		return 0, err
	}
	gc := GC(f.id())
	f.gcs[gc] = graphicsExposures
	return gc, nil
}

func (f *fakeDisplay) FreeGC(gc GC) error {
	delete(f.gcs, gc)
	return f.call("FreeGC")
}

func (f *fakeDisplay) newImage(depth, width, height int) (*Image, error) {
	ff, ok := f.formats[depth]
	if !ok {
		return nil, fmt.Errorf("no format for depth %d", depth)
	}
	bits := (width*ff.bpp + ff.pad - 1) / ff.pad * ff.pad
	return &Image{Width: width, Height: height, Depth: depth, BitsPerPixel: ff.bpp, BytesPerLine: bits / 8}, nil
}

func (f *fakeDisplay) CreateImage(depth, width, height int, data []byte) (*Image, error) {
	if err := f.call("CreateImage"); err != nil {
		return nil, err
	}
	img, err := f.newImage(depth, width, height)
	if err != nil {
		return nil, err
	}
	img.Data = data
	return img, nil
}

func (f *fakeDisplay) PutImage(w Window, gc GC, img *Image, dstX, dstY int) error {
	if err := f.call("PutImage"); err != nil {
		return err
	}
	f.displayed = append([]byte(nil), img.Data[:img.BytesPerLine*img.Height]...)
	return nil
}

func (f *fakeDisplay) AllocColor(cmap Colormap, c *Color) error {
	f.log.add("AllocColor")
	if len(f.colors) == f.refuseColor {
		return errRefused
	}
	c.Pixel = uint32(100 + len(f.colors))
	f.colors = append(f.colors, *c)
	return nil
}

func (f *fakeDisplay) ShmQueryExtension() bool {
	f.log.add("ShmQueryExtension")
	return f.hasShm
}

func (f *fakeDisplay) ShmCreateImage(depth, width, height int) (*Image, error) {
	if err := f.call("ShmCreateImage"); err != nil {
		return nil, err
	}
	return f.newImage(depth, width, height)
}

func (f *fakeDisplay) ShmAttach(shmid int, readOnly bool) (Segment, error) {
	if err := f.call("ShmAttach"); err != nil {
		return 0, err
	}
	seg := Segment(f.id())
	if _, refused := f.async["ShmAttach"]; !refused {
		f.segments[seg] = shmid
	}
	return seg, nil
}

func (f *fakeDisplay) ShmDetach(seg Segment) error {
	delete(f.segments, seg)
	return f.call("ShmDetach")
}

func (f *fakeDisplay) ShmPutImage(w Window, gc GC, img *Image, seg Segment, dstX, dstY int) error {
	if err := f.call("ShmPutImage"); err != nil {
		return err
	}
	id, ok := f.segments[seg]
	if !ok {
		return fmt.Errorf("segment %d not attached", seg)
	}
	mem := f.shm.segments[id]
	f.displayed = append([]byte(nil), mem[:img.BytesPerLine*img.Height]...)
	return nil
}

func (f *fakeDisplay) SetErrorHandler(h func(error)) func(error) {
	prev := f.handler
	f.handler = h
	return prev
}

func (f *fakeDisplay) Sync() error {
	if err := f.call("Sync"); err != nil {
		return err
	}
	queued := f.queued
	f.queued = nil
	for _, err := range queued {
		if f.handler != nil {
			f.handler(err)
		}
	}
	return nil
}

func (f *fakeDisplay) PollEvent() (Event, bool) {
	if len(f.events) == 0 {
		return Event{}, false
	}
	e := f.events[0]
	f.events = f.events[1:]
	return e, true
}

func (f *fakeDisplay) Close() error {
	f.closed = true
	return f.call("Close")
}

type fakeShm struct {
	log      *callLog
	fail     map[string]error
	nextID   int
	segments map[int][]byte
	attached map[int]bool
}

func newFakeShm(log *callLog) *fakeShm {
	return &fakeShm{
		log:      log,
		fail:     map[string]error{},
		segments: map[int][]byte{},
		attached: map[int]bool{},
	}
}

func (s *fakeShm) Get(size int) (int, error) {
	s.log.add("shmget")
	if err := s.fail["shmget"]; err != nil {
		return 0, err
	}
	s.nextID++
	s.segments[s.nextID] = make([]byte, size)
	return s.nextID, nil
}

func (s *fakeShm) Attach(id int) ([]byte, error) {
	s.log.add("shmat")
	if err := s.fail["shmat"]; err != nil {
		return nil, err
	}
	mem, ok := s.segments[id]
	if !ok {
		return nil, fmt.Errorf("no segment %d", id)
	}
	s.attached[id] = true
	return mem, nil
}

func (s *fakeShm) Detach(addr []byte) error {
	s.log.add("shmdt")
	for id, mem := range s.segments {
		if len(mem) > 0 && len(addr) > 0 && &mem[0] == &addr[0] {
			delete(s.attached, id)
			return nil
		}
	}
	return errors.New("not attached")
}

func (s *fakeShm) Remove(id int) error {
	s.log.add("shmctl(IPC_RMID)")
	if _, ok := s.segments[id]; !ok {
		return fmt.Errorf("no segment %d", id)
	}
	delete(s.segments, id)
	return nil
}

type testRig struct {
	log   *callLog
	dpy   *fakeDisplay
	shm   *fakeShm
	dials int
	dev   *Device
}

func newTestRig(depth int, cfg Config) *testRig {
	r := &testRig{log: &callLog{}}
	r.shm = newFakeShm(r.log)
	r.dpy = newFakeDisplay(r.log, r.shm, depth)
	r.dev = New(cfg,
		WithDialer(func(string) (Display, error) {
			r.dials++
			return r.dpy, nil
		}),
		WithSharedMemory(r.shm),
	)
	return r
}

type lineLogger struct {
	lines []string
}

func (l *lineLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
