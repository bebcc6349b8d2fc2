package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  lox [--max-call-depth=N] [--no-color] run [file.lox]")
	fmt.Fprintln(os.Stderr, "  lox [--max-call-depth=N] [--no-color] <file.lox>")
	fmt.Fprintln(os.Stderr, "  lox [--max-call-depth=N] [--no-color] repl")
	fmt.Fprintln(os.Stderr, "  lox check [file.lox ...]")
	fmt.Fprintln(os.Stderr, "  lox tokens <file.lox>")
	fmt.Fprintln(os.Stderr, "  lox parse <file.lox>")
	fmt.Fprintln(os.Stderr, "  lox test [--list] [--fail-fast] [--verbose] [suite|path ...]")
	fmt.Fprintln(os.Stderr, "  lox suites fetch [suite ...]")
	fmt.Fprintln(os.Stderr, "  lox watch <file.lox>")
	fmt.Fprintln(os.Stderr, "  lox version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "With no arguments, lox runs the main script from lox.yml or starts the REPL.")
}
