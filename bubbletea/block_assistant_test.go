package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/tdd"
	bt "github.com/fwojciec/tdd/bubbletea"
	"github.com/fwojciec/tdd/goldmark"
	"github.com/stretchr/testify/assert"
)

// countingMarkdown records every source passed to Render.
type countingMarkdown struct {
	calls []string
}

func (c *countingMarkdown) Render(src string, _ int) string {
	c.calls = append(c.calls, src)
	return src
}

func TestAssistantTextBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders markdown", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(goldmark.New(tdd.DefaultTheme()))
		block.SetText("hello **world**")
		view := ansi.Strip(block.View(80))
		assert.Contains(t, view, "hello world")
		assert.NotContains(t, view, "**")
	})

	t.Run("plain text without a renderer", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(nil)
		block.SetText("hello **world**")
		assert.Contains(t, block.View(80), "hello **world**")
	})

	t.Run("set text replaces content", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(nil)
		block.SetText("hello")
		block.SetText("hello world")
		view := block.View(80)
		assert.Contains(t, view, "hello world")
		assert.Equal(t, 1, strings.Count(view, "hello"))
	})

	t.Run("finalized paragraph is rendered once", func(t *testing.T) {
		t.Parallel()
		md := &countingMarkdown{}
		block := bt.NewAssistantTextBlock(md)
		block.SetText("first paragraph\n\ntra")
		block.View(80)
		block.SetText("first paragraph\n\ntrailing")
		view := block.View(80)

		assert.Contains(t, view, "first paragraph")
		assert.Contains(t, view, "trailing")
		assert.Equal(t, []string{"first paragraph", "tra", "trailing"}, md.calls)
	})

	t.Run("width change re-renders cached finalized content", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(goldmark.New(tdd.DefaultTheme()))
		block.SetText("word1 word2 word3 word4 word5 word6\n\ntail")
		narrow := block.View(20)
		wide := block.View(80)
		assert.NotEqual(t, strings.Count(narrow, "\n"), strings.Count(wide, "\n"))
	})

	t.Run("content ending at paragraph boundary has no trailing gap", func(t *testing.T) {
		t.Parallel()
		md := &countingMarkdown{}
		block := bt.NewAssistantTextBlock(md)
		block.SetText("complete paragraph\n\n")
		assert.Equal(t, "complete paragraph", block.View(80))
	})

	t.Run("unclosed fence is closed for rendering", func(t *testing.T) {
		t.Parallel()
		md := &countingMarkdown{}
		block := bt.NewAssistantTextBlock(md)
		block.SetText("```python\nprint(1)")
		block.View(80)
		assert.Equal(t, []string{"```python\nprint(1)\n```"}, md.calls)
	})

	t.Run("blank line inside code fence does not split finalization", func(t *testing.T) {
		t.Parallel()
		md := &countingMarkdown{}
		block := bt.NewAssistantTextBlock(md)
		block.SetText("text\n\n```ts\nfunction f() {\n\nreturn")
		block.View(80)
		assert.Equal(t, []string{"text", "```ts\nfunction f() {\n\nreturn\n```"}, md.calls)
	})

	t.Run("empty content renders empty string", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(nil)
		assert.Empty(t, block.View(80))
	})

	t.Run("zero width renders gracefully", func(t *testing.T) {
		t.Parallel()
		block := bt.NewAssistantTextBlock(goldmark.New(tdd.DefaultTheme()))
		block.SetText("hello world")
		assert.NotPanics(t, func() { block.View(0) })
	})
}
