package lower

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/guestc/tree"
)

func TestModeStack(t *testing.T) {
	var s ModeStack
	be.Equal(t, s.Peek(), ModePlain)
	be.Equal(t, s.Depth(), 0)

	s.Push(ModeArgsFull)
	s.Push(ModeMultiTarget)
	be.Equal(t, s.Peek(), ModeMultiTarget)
	be.Equal(t, s.Depth(), 2)

	be.Equal(t, s.Pop(), ModeMultiTarget)
	be.Equal(t, s.Pop(), ModeArgsFull)
	be.Equal(t, s.Depth(), 0)
}

func TestModeStackPopEmpty(t *testing.T) {
	var s ModeStack
	defer func() {
		err, ok := recover().(*Error)
		be.True(t, ok)
		be.Equal(t, err.Error(), "lower: context stack popped without a matching push")
	}()
	s.Pop()
}

func TestWithinPopsOnPanic(t *testing.T) {
	p := newPass(Options{})
	func() {
		defer func() { recover() }()
		p.within(ModeArgsSimple, func() tree.Value {
			panic(errorf(nil, "boom"))
		})
	}()
	be.Equal(t, p.modes.Depth(), 0)
}

func TestModeString(t *testing.T) {
	be.Equal(t, ModeArgsFull.String(), "args-full")
	be.Equal(t, ModeMultiTarget.String(), "multi-target")
	be.Equal(t, Mode(9).String(), "Mode(9)")
}
