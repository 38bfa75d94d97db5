package ui

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfredjeanlab/archscore/internal/model"
)

func withColor(t *testing.T, on bool) {
	t.Helper()
	prev := noColor
	noColor = !on
	t.Cleanup(func() { noColor = prev })
}

func TestRenderStatus(t *testing.T) {
	withColor(t, true)
	assert.Equal(t, "\x1b[38;5;203mbottleneck\x1b[0m", RenderStatus(model.StatusBottleneck))
	assert.Equal(t, "\x1b[38;5;179mwarning\x1b[0m", RenderStatus(model.StatusWarning))
	assert.Equal(t, "\x1b[38;5;114mhealthy\x1b[0m", RenderStatus(""))
}

func TestRenderNoColor(t *testing.T) {
	withColor(t, false)
	assert.Equal(t, "6.3", RenderScore(6.26, model.StatusHealthy))
	assert.Equal(t, "x", RenderAccent("x"))
	assert.Equal(t, "warning", RenderStatus(model.StatusWarning))
}

func TestScoreBar(t *testing.T) {
	withColor(t, false)
	for _, tc := range []struct {
		score float64
		want  string
	}{
		{0, "░░░░░░░░░░"},
		{4.4, "████░░░░░░"},
		{6.5, "███████░░░"},
		{10, "██████████"},
		{12, "██████████"},
	} {
		assert.Equal(t, tc.want, ScoreBar(tc.score, model.StatusHealthy), "score %v", tc.score)
	}
}

func TestShouldUseColor_Env(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ShouldUseColor())

	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "1")
	assert.True(t, ShouldUseColor())

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	assert.False(t, ShouldUseColor())
}

func TestColorEnabled_DumbTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "")
	t.Setenv("TERM", "dumb")
	assert.False(t, ColorEnabled(os.Stdout))

	t.Setenv("CLICOLOR_FORCE", "1")
	assert.True(t, ColorEnabled(nil))
}

func TestColorEnabled_NotTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "")
	t.Setenv("TERM", "xterm-256color")

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, ColorEnabled(f))
	assert.False(t, ColorEnabled(nil))
}
