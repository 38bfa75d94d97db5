package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether stdout should get ANSI colors.
func ShouldUseColor() bool {
	return ColorEnabled(os.Stdout)
}

// ColorEnabled decides color for f. NO_COLOR (any value) and TERM=dumb turn
// it off, CLICOLOR_FORCE=1 turns it on without a terminal, CLICOLOR=0 turns
// it off. Otherwise color follows whether f is a terminal.
func ColorEnabled(f *os.File) bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case envIs("CLICOLOR_FORCE", "1"):
		return true
	case envIs("CLICOLOR", "0"), envIs("TERM", "dumb"):
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func envIs(key, want string) bool {
	return strings.TrimSpace(os.Getenv(key)) == want
}
