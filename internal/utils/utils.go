package utils

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// ANSI colors for PrintFancy prefixes.
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// PrintFancy writes a colored "[source]" prefix followed by a and a newline.
func PrintFancy(w io.Writer, source string, color string, a ...any) {
	fmt.Fprint(w, color, "[", source, "]", Reset, " ")
	fmt.Fprint(w, a...)
	fmt.Fprint(w, "\n")
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
