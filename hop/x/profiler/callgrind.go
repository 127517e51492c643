// Copyright © 2018 The ELPS authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/token"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

// A profiler implementation that builds Callgrind files, in the manner of
// XDebug.  The resulting files can be opened in KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer     io.Writer
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	current    *callRef
}

var _ hop.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler writing a callgrind profile of the
// scripts run by s.  An output must be set before the profiler is enabled.
func NewCallgrindProfiler(s *hop.Session, opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.session = s
	s.Profiler = p

	p.applyConfigs(opts...)
	return p
}

// Represents something that got called
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	endMemory   uint64
	file        string
	line        int
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: hop %s (Go %s)\n", hop.Version, runtime.Version())
	w.printf("cmd: Run\npart: 1\npositions: line\n\n")
	w.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.current = nil
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.Unlock()
	p.incrementCallRef("ENTRYPOINT", &token.Location{File: "-", Path: "-"})
	return p.profiler.Enable()
}

// SetFile makes p write its profile to filename.
func (p *callgrindProfiler) SetFile(filename string) error {
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	if err := p.SetWriter(f); err != nil {
		_ = f.Close()
		return err
	}
	return nil
}

// SetWriter makes p write its profile to w, which is closed by Complete when
// it is an io.Closer.
func (p *callgrindProfiler) SetWriter(w io.Writer) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.writer = w
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	ref := p.getCallRefAndDecrement()
	if p.writeErr != nil {
		return p.writeErr
	}
	// Generate entrypoint
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	// Output the things we called
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, 0)
	}
	w.print("\n")
	duration := time.Since(p.startTime)
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", duration.Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if c, ok := p.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func (p *callgrindProfiler) Start(fn *hop.Closure) func() {
	if p.skipTrace(fn) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fn)
	// Mark the time and point of entry.  This records callees, the session
	// call stack records callers.
	p.incrementCallRef(prettyLabel, getSourceLoc(fn))

	return func() {
		p.end(fn)
	}
}

// Generates a call ref so the same item can be located again
func (p *callgrindProfiler) incrementCallRef(name string, loc *token.Location) *callRef {
	p.Lock()
	defer p.Unlock()
	frameRef := new(callRef)
	frameRef.name = name
	if loc != nil {
		frameRef.file = loc.File
		frameRef.line = loc.Line
	}
	if p.current != nil {
		frameRef.prev = p.current
		frameRef.prev.children = append(frameRef.prev.children, frameRef)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	frameRef.startMemory = ms.TotalAlloc
	frameRef.start = time.Now()
	p.current = frameRef
	return frameRef
}

// Pops the call ref of the innermost call.  Sessions are single threaded so
// one chain of refs is enough.
func (p *callgrindProfiler) getCallRefAndDecrement() *callRef {
	current := p.current
	if current == nil {
		panic("callgrind profiler call refs underflow")
	}
	p.current = current.prev
	return current
}

func (p *callgrindProfiler) end(fn *hop.Closure) {
	p.Lock()
	defer p.Unlock()
	if !p.enabled || p.writeErr != nil {
		return
	}
	fName, _ := p.prettyFunName(fn)
	loc := getSourceLoc(fn)
	w := &errWriter{w: p.writer}
	// Write what function we've been observing and where to find it
	if loc != nil {
		w.printf("fl=%s\n", p.getRef(loc.File))
	}
	w.printf("fn=%s\n", p.getRef(fName))
	ref := p.getCallRefAndDecrement()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.endMemory = ms.TotalAlloc
	memory := ref.endMemory - ref.startMemory
	// Output timing and line ref
	line := 0
	if loc != nil {
		line = loc.Line
	}
	w.printf("%d %d %d\n", line, ref.duration, memory)
	// Output the things we called
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, memory)
	}
	// and end the entry
	w.print("\n")
	if w.err != nil {
		p.writeErr = w.err
	}
}
