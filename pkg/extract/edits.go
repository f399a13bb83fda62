package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a 0-based line and character in a document. Characters count
// UTF-16 code units, as editors and LSP clients do.
type Position struct {
	Line      int
	Character int
}

// OffsetForPosition converts a position to a byte offset. Characters past
// the end of a line clamp to the line end.
func OffsetForPosition(text string, pos Position) (int, error) {
	if pos.Line < 0 || pos.Character < 0 {
		return 0, fmt.Errorf("invalid position %d:%d", pos.Line, pos.Character)
	}
	offset := 0
	for line := 0; line < pos.Line; line++ {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("line %d beyond end of document", pos.Line)
		}
		offset += nl + 1
	}
	for ch := 0; offset < len(text) && text[offset] != '\n'; {
		r, size := utf8.DecodeRuneInString(text[offset:])
		ch += utf16Len(r)
		if ch > pos.Character {
			break
		}
		offset += size
	}
	return offset, nil
}

// utf16Len is the number of UTF-16 code units encoding r.
func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// ParseRange converts an editor range "L:C-L:C" (0-based lines and
// characters) into byte offsets within text.
func ParseRange(text, rng string) (int, int, error) {
	from, to, ok := strings.Cut(rng, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q: want L:C-L:C", rng)
	}
	startPos, err := parsePosition(from)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %w", rng, err)
	}
	endPos, err := parsePosition(to)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %w", rng, err)
	}
	start, err := OffsetForPosition(text, startPos)
	if err != nil {
		return 0, 0, err
	}
	end, err := OffsetForPosition(text, endPos)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parsePosition(s string) (Position, error) {
	line, char, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Position{}, fmt.Errorf("position %q: want L:C", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	c, err := strconv.Atoi(char)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return Position{Line: l, Character: c}, nil
}

// PositionForOffset converts a byte offset to a position.
func PositionForOffset(text string, offset int) Position {
	if offset > len(text) {
		offset = len(text)
	}
	prefix := text[:offset]
	line := strings.Count(prefix, "\n")
	character := 0
	for _, r := range prefix[strings.LastIndexByte(prefix, '\n')+1:] {
		character += utf16Len(r)
	}
	return Position{Line: line, Character: character}
}

// lineStart returns the offset of the first byte on offset's line.
func lineStart(text string, offset int) int {
	return strings.LastIndexByte(text[:offset], '\n') + 1
}

// ApplyEdits applies a result to the document it was computed from: the
// selected range [start, end) becomes ReplaceCode, and ComponentCode
// followed by one blank line is inserted at the start of the line holding
// InsertAt.
//
// It returns the new document and the offset at which the component text
// begins.
func ApplyEdits(document string, start, end int, r *Result) (string, int, error) {
	if start < 0 || end > len(document) || start > end {
		return "", 0, fmt.Errorf("%w: range [%d,%d) outside document", ErrInvalidSelection, start, end)
	}
	if r.InsertAt > start {
		return "", 0, fmt.Errorf("insert offset %d follows selection start %d", r.InsertAt, start)
	}

	at := lineStart(document, r.InsertAt)
	var b strings.Builder
	b.Grow(len(document) + len(r.ComponentCode) + len(r.ReplaceCode) + 2)
	b.WriteString(document[:at])
	b.WriteString(strings.TrimRight(r.ComponentCode, "\n"))
	b.WriteString("\n\n")
	b.WriteString(document[at:start])
	b.WriteString(r.ReplaceCode)
	b.WriteString(document[end:])
	return b.String(), at, nil
}

// ComponentLines returns the 0-based line range [first, last) the inserted
// component occupies in a document produced by ApplyEdits.
func ComponentLines(document string, componentAt int, r *Result) (int, int) {
	first := strings.Count(document[:componentAt], "\n")
	return first, first + strings.Count(strings.TrimRight(r.ComponentCode, "\n"), "\n") + 1
}
