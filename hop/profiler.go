// Copyright © 2018 The ELPS authors

package hop

// Version is the version of the hop runtime.
const Version = "1.0"

// Interface for a profiler
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session
	Complete() error
	// Marks the start of a closure invocation.  The returned function marks
	// its end.
	Start(fn *Closure) func()
}
