package ui

import (
	"fmt"
	"io"
	"os"
)

// SetTerminalBackground emits OSC 11 to set the terminal's default background
// color and returns a function that restores the original default via OSC 111.
// Every ANSI reset then falls back to the given color instead of the
// terminal's configured default (usually black).
func SetTerminalBackground(hexColor string) func() {
	return setTermBg(os.Stdout, hexColor)
}

func setTermBg(w io.Writer, hexColor string) func() {
	if hexColor == "" {
		return func() {}
	}
	fmt.Fprintf(w, "\033]11;%s\033\\", hexColor)

	return func() {
		fmt.Fprint(w, "\033]111\033\\")
	}
}
