package main

import (
	"fmt"
	"io"
	"os"

	"github.com/strager/guestc/lower"
	"github.com/strager/guestc/tree"
)

// lowerSource parses source, one input tree written as an S-expression,
// and lowers it.
func lowerSource(source string, opts lower.Options) (*lower.Result, error) {
	root, err := tree.ParseNode(source)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	res, err := lower.Lower(root, opts)
	if err != nil {
		return nil, fmt.Errorf("lowering: %w", err)
	}
	return res, nil
}

// readSource reads filename, or standard input when filename is "-".
func readSource(filename string) (string, error) {
	var data []byte
	var err error
	if filename == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filename, err)
	}
	return string(data), nil
}
