// Package profiler records nested timing scopes into a ring buffer and
// exports them in the speedscope evented format.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

var ErrNoEvents = errors.New("profiler: no events")

// Profiler is safe for concurrent Start calls. A nil Profiler records
// nothing.
type Profiler struct {
	ring ring
	now  func() time.Time

	mu     sync.Mutex
	frames []string
	index  map[string]int
}

// New keeps the last capacity open/close events.
func New(capacity int) *Profiler {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	p := &Profiler{now: time.Now, index: map[string]int{}}
	p.ring.init(capacity)
	return p
}

// Start begins a scope and returns the func that ends it.
func (p *Profiler) Start(name string) func() {
	if p == nil {
		return func() {}
	}
	fid := p.intern(name)
	start := p.now().UnixNano()
	p.ring.push(event{AtNS: start, Frame: fid, Open: true})
	return func() {
		end := max(p.now().UnixNano(), start)
		p.ring.push(event{AtNS: end, Frame: fid})
	}
}

// Len returns how many events are buffered.
func (p *Profiler) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ring.snapshot())
}

func (p *Profiler) intern(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.index[name]; ok {
		return id
	}
	id := len(p.frames)
	p.index[name] = id
	p.frames = append(p.frames, name)
	return id
}

// Runtime is a snapshot of Go runtime counters for overlays.
type Runtime struct {
	HeapAlloc  uint64
	Mallocs    uint64
	NumGC      uint32
	Goroutines int
	CPUs       int
}

func ReadRuntime() Runtime {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Runtime{
		HeapAlloc:  m.HeapAlloc,
		Mallocs:    m.Mallocs,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}

// ---------- event ring ----------

type event struct {
	AtNS  int64
	Frame int
	Open  bool
}

type ring struct {
	size  uint64
	write atomic.Uint64
	evs   []event
}

func (r *ring) init(capacity int) {
	r.size = uint64(capacity)
	r.evs = make([]event, r.size)
}

func (r *ring) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.size] = e
}

// snapshot returns the buffered events in write order.
func (r *ring) snapshot() []event {
	n := r.write.Load()
	start := uint64(0)
	if n > r.size {
		start = n - r.size
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.size])
	}
	return out
}

// ---------- speedscope ----------

type ssFile struct {
	Schema   string      `json:"$schema"`
	Shared   ssShared    `json:"shared"`
	Profiles []ssProfile `json:"profiles"`
	Exporter string      `json:"exporter,omitempty"`
	Name     string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"` // "evented"
	Name       string    `json:"name"`
	Unit       string    `json:"unit"` // "microseconds"
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"`  // "O" or "C"
	At    int64  `json:"at"`    // µs since first event
	Frame int    `json:"frame"` // frame index
}

// WriteSpeedscope encodes the buffered events. Closes without a matching
// open (cut off by the ring) are skipped and scopes still open are closed at
// the last timestamp.
func (p *Profiler) WriteSpeedscope(w io.Writer) error {
	if p == nil {
		return ErrNoEvents
	}
	evs := p.ring.snapshot()
	if len(evs) == 0 {
		return ErrNoEvents
	}

	p.mu.Lock()
	frames := make([]ssFrame, len(p.frames))
	for i, name := range p.frames {
		frames[i] = ssFrame{Name: name}
	}
	p.mu.Unlock()

	base := evs[0].AtNS
	out := make([]ssEvent, 0, len(evs))
	stack := make([]int, 0, 64)
	last := int64(0)
	for _, e := range evs {
		at := max((e.AtNS-base)/1000, last) // keep µs monotonic
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.Frame})
			stack = append(stack, e.Frame)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.Frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.Frame})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}
	if len(out) == 0 {
		return fmt.Errorf("%w: none left after filtering", ErrNoEvents)
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "frames",
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "gosu-profiler",
		Name:     "gosu capture",
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// SaveSpeedscope writes the capture to path, atomically replacing it.
func (p *Profiler) SaveSpeedscope(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := p.WriteSpeedscope(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
