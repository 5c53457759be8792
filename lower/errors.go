package lower

import (
	"fmt"

	"github.com/strager/guestc/tree"
)

// Error is a fatal lowering failure. Node is the offending input, or nil
// when the failure is not tied to one node.
type Error struct {
	Message string
	Node    tree.Value
}

func (e *Error) Error() string {
	if e.Node == nil {
		return "lower: " + e.Message
	}
	return fmt.Sprintf("lower: %s: %s", e.Message, e.Node)
}

func errorf(node tree.Value, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Node: node}
}

// Warning reports an input shape that was recognized but skipped because
// it has no runtime effect.
type Warning struct {
	Message string
	Node    tree.Value
}

func (w Warning) String() string {
	if w.Node == nil {
		return "warning: " + w.Message
	}
	return fmt.Sprintf("warning: %s: %s", w.Message, w.Node)
}
