package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var _ MessageBlock = (*AssistantTextBlock)(nil)

// AssistantTextBlock renders the prose of an assistant message. The stream
// replaces the whole text on every update, but in practice the text only
// grows, so paragraphs before the last blank line are rendered once per
// width and cached.
type AssistantTextBlock struct {
	content string
	md      Markdown

	finalizedRaw     string
	finalizedByWidth map[int]string
}

// NewAssistantTextBlock creates a block rendering through md. A nil md
// renders plain wrapped text.
func NewAssistantTextBlock(md Markdown) *AssistantTextBlock {
	return &AssistantTextBlock{
		md:               md,
		finalizedByWidth: make(map[int]string),
	}
}

// SetText replaces the prose.
func (b *AssistantTextBlock) SetText(text string) {
	if text == b.content {
		return
	}
	b.content = text
	b.promoteFinalized()
}

func (b *AssistantTextBlock) View(width int) string {
	finalized := b.renderFinalized(width)
	trailing := b.trailingRaw()
	if hasUnclosedFence(trailing) {
		// Close the fence for rendering only, so partial code displays as code.
		trailing += "\n```"
	}
	if strings.TrimSpace(trailing) == "" {
		return finalized
	}
	rendered := b.render(trailing, width)
	if finalized == "" {
		return rendered
	}
	return strings.TrimRight(finalized, "\n") + "\n\n" + strings.TrimLeft(rendered, "\n")
}

func (b *AssistantTextBlock) render(src string, width int) string {
	if b.md == nil {
		return lipgloss.NewStyle().Width(max(width, 1)).Render(src)
	}
	return b.md.Render(src, width)
}

// promoteFinalized finds the last "\n\n" whose prefix has every fence
// closed. Splitting inside a fence would render half a code block as prose.
func (b *AssistantTextBlock) promoteFinalized() {
	raw := b.content
	for end := len(raw); ; {
		idx := strings.LastIndex(raw[:end], "\n\n")
		if idx <= 0 {
			b.setFinalized("")
			return
		}
		candidate := raw[:idx]
		if !hasUnclosedFence(candidate) {
			b.setFinalized(candidate)
			return
		}
		end = idx
	}
}

func (b *AssistantTextBlock) setFinalized(raw string) {
	if raw != b.finalizedRaw {
		b.finalizedRaw = raw
		clear(b.finalizedByWidth)
	}
}

func (b *AssistantTextBlock) renderFinalized(width int) string {
	if width <= 0 || b.finalizedRaw == "" {
		return ""
	}
	if cached, ok := b.finalizedByWidth[width]; ok {
		return cached
	}
	rendered := b.render(b.finalizedRaw, width)
	b.finalizedByWidth[width] = rendered
	return rendered
}

func (b *AssistantTextBlock) trailingRaw() string {
	if b.finalizedRaw == "" {
		return b.content
	}
	return strings.TrimPrefix(b.content, b.finalizedRaw+"\n\n")
}

// hasUnclosedFence reports an odd number of "```" in s. Triple backticks
// inside inline code spans are miscounted.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
