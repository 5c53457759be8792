package lower

import "fmt"

// Mode records which construct encloses the node being lowered. It only
// matters for masgn, whose children mean different things in a parameter
// list, in an assignment target list and in a plain statement.
type Mode int

const (
	ModePlain Mode = iota
	ModeArgsSimple
	ModeArgsFull
	ModeMultiTarget
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeArgsSimple:
		return "args-simple"
	case ModeArgsFull:
		return "args-full"
	case ModeMultiTarget:
		return "multi-target"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeStack is the context stack threaded through one pass.
type ModeStack struct {
	modes []Mode
}

func (s *ModeStack) Push(m Mode) {
	s.modes = append(s.modes, m)
}

// Pop removes the top mode. Popping an empty stack means a rule lost
// track of its pushes and aborts the pass.
func (s *ModeStack) Pop() Mode {
	if len(s.modes) == 0 {
		panic(errorf(nil, "context stack popped without a matching push"))
	}
	m := s.modes[len(s.modes)-1]
	s.modes = s.modes[:len(s.modes)-1]
	return m
}

// Peek returns the top mode, or ModePlain if the stack is empty.
func (s *ModeStack) Peek() Mode {
	if len(s.modes) == 0 {
		return ModePlain
	}
	return s.modes[len(s.modes)-1]
}

func (s *ModeStack) Depth() int { return len(s.modes) }
