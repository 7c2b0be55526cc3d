package gemini

import (
	"strings"

	"github.com/fwojciec/tdd"
)

const fence = "```"

// fenceTracker turns streamed markdown into protocol records. Prose is
// passed through as soon as it cannot start a fence; lines inside a code
// block are held until complete so each code token is a whole line.
type fenceTracker struct {
	line    string // current, unterminated line
	emitted int    // bytes of line already sent as prose
	inCode  bool
	lang    string
	index   int
}

func (f *fenceTracker) feed(text string) []tdd.Record {
	var recs []tdd.Record
	for text != "" {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			f.line += text
			recs = append(recs, f.partial()...)
			break
		}
		f.line += text[:i+1]
		text = text[i+1:]
		recs = append(recs, f.complete()...)
	}
	return recs
}

// flush emits the unterminated tail and closes an open code block.
func (f *fenceTracker) flush() []tdd.Record {
	var recs []tdd.Record
	if f.line != "" {
		recs = f.complete()
	}
	if f.inCode {
		f.inCode = false
		recs = append(recs, tdd.RecordCodeEnd{})
	}
	return recs
}

func (f *fenceTracker) partial() []tdd.Record {
	if f.inCode || mayOpenFence(f.line) {
		return nil
	}
	text := f.line[f.emitted:]
	f.emitted = len(f.line)
	if text == "" {
		return nil
	}
	return []tdd.Record{f.token(text, false)}
}

func (f *fenceTracker) complete() []tdd.Record {
	line, emitted := f.line, f.emitted
	f.line, f.emitted = "", 0

	if emitted == 0 && isFence(line) {
		if !f.inCode {
			f.inCode = true
			f.lang = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "`"))
			return []tdd.Record{f.token(line, false), tdd.RecordCodeStart{Language: f.lang}}
		}
		f.inCode = false
		return []tdd.Record{tdd.RecordCodeEnd{}, f.token(line, false)}
	}
	if f.inCode {
		return []tdd.Record{f.token(line, true)}
	}
	if text := line[emitted:]; text != "" {
		return []tdd.Record{f.token(text, false)}
	}
	return nil
}

func (f *fenceTracker) token(text string, inCode bool) tdd.Record {
	rec := tdd.RecordToken{Text: text, Index: f.index, Role: tdd.RoleAssistant}
	if inCode {
		rec.InCode = true
		rec.Language = f.lang
	}
	f.index++
	return rec
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), fence)
}

// mayOpenFence reports whether more input could still make s a fence line.
func mayOpenFence(s string) bool {
	t := strings.TrimLeft(s, " \t")
	return strings.HasPrefix(t, fence) || strings.HasPrefix(fence, t)
}
