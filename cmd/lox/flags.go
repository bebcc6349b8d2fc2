package main

import (
	"fmt"
	"strconv"
	"strings"
)

type cliOptions struct {
	maxCallDepth int
	noColor      bool
}

// parseGlobalFlags pulls the interpreter-wide flags out of args wherever they
// appear. Everything after "--" is passed through untouched.
func parseGlobalFlags(args []string) (cliOptions, []string, error) {
	var opts cliOptions
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		switch {
		case arg == "--no-color":
			opts.noColor = true
		case arg == "--max-call-depth":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("--max-call-depth expects a value")
			}
			depth, err := parseMaxCallDepth(args[i+1])
			if err != nil {
				return opts, nil, err
			}
			opts.maxCallDepth = depth
			i++
		case strings.HasPrefix(arg, "--max-call-depth="):
			depth, err := parseMaxCallDepth(strings.TrimPrefix(arg, "--max-call-depth="))
			if err != nil {
				return opts, nil, err
			}
			opts.maxCallDepth = depth
		default:
			remaining = append(remaining, arg)
		}
	}
	return opts, remaining, nil
}

func parseMaxCallDepth(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("--max-call-depth expects a value")
	}
	depth, err := strconv.Atoi(value)
	if err != nil || depth <= 0 {
		return 0, fmt.Errorf("invalid --max-call-depth value '%s' (expected a positive integer)", value)
	}
	return depth, nil
}
