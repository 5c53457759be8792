package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func showUsage() {
	fmt.Fprintf(os.Stderr, `guestc - lowers guest-language trees to runtime primitives

Usage:
    guestc <command> [arguments]

Commands:
    lower <file>    Lower an input tree and print the result
    check <file>    Lower an input tree and report problems only
    eval <tree>     Lower an input tree given on the command line
    help            Show this help message

Input is a single S-expression. A file argument of - reads standard input.

Environment:
    GUESTC_VAR_PREFIX    Prefix for generated temporaries
    GUESTC_LOG_LEVEL     debug, info, warn or error (default warn)
    GUESTC_MAX_DEPTH     Maximum nesting of the input tree (default 10000)

Examples:
    guestc lower program.sexp
    guestc lower -prefix unit2_ program.sexp
    guestc eval '(or (lvar a) (lit 1))'
    guestc check -v program.sexp

Use "guestc <command> -h" for more information about a command.
`)
}

// newCommand builds the flag set of a command that takes one operand.
func newCommand(name, operand, summary string, cfg *config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfg.addFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: guestc %s [-v] [-prefix p] [-max-depth n] <%s>\n", name, operand)
		fmt.Fprintf(os.Stderr, "%s\n\n", summary)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseOperand parses args and returns the single operand.
func parseOperand(fs *flag.FlagSet, args []string, operand string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Error: expected exactly one %s argument\n", operand)
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func mustLoadConfig() config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func lowerCommand(args []string) {
	cfg := mustLoadConfig()
	fs := newCommand("lower", "file", "Lower an input tree and print the result", &cfg)
	filename := parseOperand(fs, args, "file")

	source, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, err := lowerSource(source, cfg.options(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		os.Exit(1)
	}
	fmt.Println(res.Tree)
}

func checkCommand(args []string) {
	cfg := mustLoadConfig()
	fs := newCommand("check", "file", "Lower an input tree and report problems only", &cfg)
	filename := parseOperand(fs, args, "file")

	source, err := readSource(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	res, err := lowerSource(source, cfg.options(os.Stderr))
	if err != nil {
		fmt.Printf("%s: %v\n", filename, err)
		os.Exit(1)
	}

	for _, w := range res.Warnings {
		fmt.Printf("%s: %s\n", filename, w)
	}
	if len(res.Warnings) == 0 {
		fmt.Printf("%s: no errors found\n", filename)
	}
	if cfg.logLevel <= slog.LevelDebug {
		fmt.Printf("%s: %d temporaries\n", filename, res.Temporaries)
	}
}

func evalCommand(args []string) {
	cfg := mustLoadConfig()
	fs := newCommand("eval", "tree", "Lower an input tree given on the command line", &cfg)
	source := parseOperand(fs, args, "tree")

	res, err := lowerSource(source, cfg.options(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(res.Tree)
}
