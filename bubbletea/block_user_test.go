package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/tdd"
	bt "github.com/fwojciec/tdd/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestUserMessageBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders prompt prefix and text", func(t *testing.T) {
		t.Parallel()
		block := bt.NewUserMessageBlock("write fizzbuzz", bt.NewStyles(tdd.DefaultTheme()))
		view := block.View(80)
		assert.Contains(t, view, "> ")
		assert.Contains(t, view, "write fizzbuzz")
	})

	t.Run("wraps long text to width", func(t *testing.T) {
		t.Parallel()
		longText := "short words that keep going and going beyond the pane width easily"
		block := bt.NewUserMessageBlock(longText, bt.NewStyles(tdd.DefaultTheme()))
		view := block.View(30)
		assert.Contains(t, view, "easily")
		lines := strings.Split(view, "\n")
		assert.Greater(t, len(lines), 1)
		for _, line := range lines {
			assert.LessOrEqual(t, lipgloss.Width(line), 30)
		}
	})
}

func TestUserMessageBlock_HangingIndent(t *testing.T) {
	t.Parallel()

	block := bt.NewUserMessageBlock("one two three four", bt.NewStyles(tdd.DefaultTheme()))
	lines := strings.Split(block.View(10), "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "  "), "line %q", line)
	}
}
