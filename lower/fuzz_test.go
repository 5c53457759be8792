package lower

import (
	"errors"
	"testing"

	"github.com/strager/guestc/tree"
)

// FuzzLower ensures lowering any parseable tree either succeeds with an
// output-only tree or fails with a *Error, and never panics.
func FuzzLower(f *testing.F) {
	for _, s := range inputSamples {
		f.Add(s)
	}
	for _, s := range []string{
		"(block)",
		"(masgn)",
		"(masgn (array (masgn (array (lasgn a)) (lit 1))) (array))",
		"(defn f (args (masgn (masgn a))) (nil))",
		"(iter (call nil m (block_pass (lvar p))) (args) (nil))",
		"(rescue (resbody (array)) (lit 1) (lit 2))",
		"(dstr \"a\" (lit 1))",
		"(call nil m (splat))",
		"(while (true) nil maybe)",
		"(fn f (block))",
		"(lit \"sym\")",
		"(hash (lit 1))",
	} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		root, err := tree.ParseNode(input)
		if err != nil {
			t.Skip()
		}

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("lowering panicked for input %q: %v", input, r)
			}
		}()

		res, err := Lower(root, Options{MaxDepth: 200})
		if err != nil {
			var lerr *Error
			if !errors.As(err, &lerr) {
				t.Fatalf("unexpected error type %T for input %q: %v", err, input, err)
			}
			return
		}
		tree.Walk(res.Tree, func(n *tree.Node) bool {
			if !n.Tag().IsOutput() {
				t.Fatalf("input tag %s in output for %q", n.Tag(), input)
			}
			return true
		})
	})
}
