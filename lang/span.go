package lang

import (
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// Span is a half-open byte range [Start, End) into a template source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (s Span) Len() int { return s.End - s.Start }

// Text returns the substring of src covered by s, clamped to src.
func (s Span) Text(src string) string {
	start, end := min(max(s.Start, 0), len(src)), min(max(s.End, 0), len(src))
	if start > end {
		return ""
	}

	return src[start:end]
}

// Join returns the smallest span covering both s and o.
func (s Span) Join(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

// Location is a human position in a source: 1-based line and column, with
// columns counted in grapheme clusters.
type Location struct {
	Line   int
	Column int
	// Text is the full source line containing the position.
	Text string
	// Offset is the byte offset of the position within Text.
	Offset int
}

// Locate returns the location of byte offset off in src.
func Locate(src string, off int) Location {
	off = min(max(off, 0), len(src))

	lineStart := strings.LastIndexByte(src[:off], '\n') + 1

	lineEnd := strings.IndexByte(src[off:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += off
	}

	return Location{
		Line:   strings.Count(src[:lineStart], "\n") + 1,
		Column: graphemes(src[lineStart:off]) + 1,
		Text:   src[lineStart:lineEnd],
		Offset: off - lineStart,
	}
}

func graphemes(s string) int {
	if s == "" {
		return 0
	}

	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len([]rune(s))
	}

	return n
}
