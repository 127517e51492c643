// Copyright © 2018 The ELPS authors

package hop

import (
	"bufio"
	"fmt"
	"io"

	"github.com/OMTS/Hop/parser/token"
)

// CallStack is a function call stack.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Source *token.Location // location of the call expression
	Name   string          // function signature, e.g. append(_:)
	Owner  string          // module or class name for members
}

// QualifiedName returns the function name prefixed with its owner.
func (f *CallFrame) QualifiedName() string {
	if f == nil {
		return ""
	}
	if f.Owner == "" {
		return f.Name
	}
	return f.Owner + "." + f.Name
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.QualifiedName())
	}
	return f.QualifiedName()
}

// Copy creates a copy of the current stack so that it can be attach to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		MaxHeight: s.MaxHeight,
		Frames:    frames,
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push pushes a new frame onto s.  Push fails with a StackOverflow error when
// s already holds MaxHeight frames.
func (s *CallStack) Push(frame CallFrame) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return Errorf(StackOverflow, frame.Source, "call depth exceeds %d", s.MaxHeight)
	}
	s.Frames = append(s.Frames, frame)
	return nil
}

// Pop removes the top frame from s.
func (s *CallStack) Pop() {
	if len(s.Frames) > 0 {
		s.Frames = s.Frames[:len(s.Frames)-1]
	}
}

// DebugPrint writes the frames of s to w, innermost first.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	for i := len(s.Frames) - 1; i >= 0; i-- {
		m, err := fmt.Fprintf(bw, "  height %d: %s\n", i, &s.Frames[i])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}
