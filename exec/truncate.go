package exec

import "strings"

// TruncateResult describes the outcome of tail truncation.
type TruncateResult struct {
	Content     string
	Truncated   bool
	TotalLines  int
	OutputLines int
}

// TruncateTail keeps the last maxLines lines of s, dropping further leading
// lines until the result fits in maxBytes. A single line longer than
// maxBytes is cut to its last maxBytes bytes.
func TruncateTail(s string, maxLines, maxBytes int) TruncateResult {
	if s == "" {
		return TruncateResult{}
	}
	trailing := strings.HasSuffix(s, "\n")
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	total := len(lines)
	if total <= maxLines && len(s) <= maxBytes {
		return TruncateResult{Content: s, TotalLines: total, OutputLines: total}
	}

	start := max(total-maxLines, 0)
	size := 0
	if trailing {
		size = 1
	}
	for i := start; i < total; i++ {
		size += len(lines[i]) + 1
	}
	size-- // no separator after the last line
	for start < total-1 && size > maxBytes {
		size -= len(lines[start]) + 1
		start++
	}

	kept := lines[start:]
	content := strings.Join(kept, "\n")
	if trailing {
		content += "\n"
	}
	if len(content) > maxBytes {
		content = content[len(content)-maxBytes:]
	}
	return TruncateResult{
		Content:     content,
		Truncated:   true,
		TotalLines:  total,
		OutputLines: len(kept),
	}
}
