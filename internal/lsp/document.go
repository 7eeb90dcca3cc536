package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// wholeDocument spans text from its first to its last character.
func wholeDocument(text string) protocol.Range {
	lines := strings.Split(text, "\n")
	last := lines[len(lines)-1]
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: uint32(len(lines) - 1), Character: utf16Len(last)},
	}
}

// applyChange splices an incremental edit into text. Positions count
// UTF-16 code units as the protocol requires.
func applyChange(text string, change protocol.TextDocumentContentChangeEvent) string {
	if change.Range == nil {
		return change.Text
	}
	start := offsetOf(text, change.Range.Start)
	end := offsetOf(text, change.Range.End)
	if end < start {
		start, end = end, start
	}
	return text[:start] + change.Text + text[end:]
}

// offsetOf converts a protocol position to a byte offset, clamping to the
// end of the line or document.
func offsetOf(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := uint32(0)
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		units += uint32(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

func utf16Len(s string) uint32 {
	n := uint32(0)
	for _, r := range s {
		n += uint32(utf16.RuneLen(r))
	}
	return n
}
