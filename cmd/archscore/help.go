package main

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/archscore/internal/ui"
)

// helpRule restyles every match of pattern in cobra's plain help text.
type helpRule struct {
	pattern *regexp.Regexp
	style   func(groups []string) string
}

var helpRules = []helpRule{
	// Section headers such as "Scoring:" or "Flags:".
	{regexp.MustCompile(`(?m)^([A-Z][^\n]*:)[ \t]*$`), func(g []string) string {
		return ui.RenderAccent(g[1])
	}},
	// Command names in a group listing.
	{regexp.MustCompile(`(?m)^(  )(\S+)(  )`), func(g []string) string {
		return g[1] + ui.RenderCommand(g[2]) + g[3]
	}},
	// Flag value types, e.g. "--library string".
	{regexp.MustCompile(`(--?\S+\s+)(string|int|float64|duration|stringSlice)\b`), func(g []string) string {
		return g[1] + ui.RenderMuted(g[2])
	}},
	// Defaults, e.g. (default "builtin").
	{regexp.MustCompile(`\(default [^)]*\)`), func(g []string) string {
		return ui.RenderMuted(g[0])
	}},
}

// colorizedHelpFunc returns a cobra help function that colors the default
// help text when stdout supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		orig := cmd.OutOrStdout()
		if !ui.ShouldUseColor() || noColor {
			_ = cmd.Usage()
			return
		}

		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(orig)
		fmt.Fprint(orig, colorizeHelpOutput(buf.String()))
	}
}

func colorizeHelpOutput(s string) string {
	for _, r := range helpRules {
		s = r.pattern.ReplaceAllStringFunc(s, func(match string) string {
			return r.style(r.pattern.FindStringSubmatch(match))
		})
	}
	return s
}
