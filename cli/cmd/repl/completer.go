package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/InioX/matugen-sub000/color"
	"github.com/InioX/matugen-sub000/lang"
)

// commands are the colon commands understood by the session.
var commands = []string{":help", ":roles", ":filters", ":context", ":clear", ":quit"}

// keywords may follow a block delimiter.
var keywords = []string{"for", "if", "else", "endfor", "endif", "include"}

// schemes may follow a role in a color path.
var schemes = []string{
	string(lang.SchemeLight),
	string(lang.SchemeDark),
	string(lang.SchemeDefault),
}

const colorsNamespace = "colors"

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. Underscores and hyphens are part of words.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'{', '}', '<', '>', '*', '%', '$', '[', ']', '(', ')',
		'+', '/', '|', ':', ',', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dot-separated path leading up to the current word.
// For input "{{ colors.primary.da" with the word "da", the parent path is
// "colors.primary". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// precedes reports whether the text before wordStart, ignoring spaces, ends
// with suffix.
func precedes(input string, wordStart int, suffix string) bool {
	return suffix != "" &&
		strings.HasSuffix(strings.TrimRight(input[:wordStart], " \t"), suffix)
}

// candidates returns the names that may complete the word starting at
// wordStart.
func candidates(eng *lang.Engine, input string, wordStart int) []string {
	switch {
	case strings.HasPrefix(input, ":") && !strings.ContainsAny(input[:wordStart], " \t"):
		return commands

	case precedes(input, wordStart, eng.Syntax().BlockLeft):
		return keywords

	case precedes(input, wordStart, "|"):
		return eng.Filters()
	}

	parent := parentPath(input, wordStart)
	if parent == "" {
		return append(eng.Context().Keys(), colorsNamespace)
	}

	segs := strings.Split(parent, ".")

	if segs[0] == colorsNamespace {
		switch len(segs) {
		case 1:
			return eng.Roles()
		case 2:
			return schemes
		case 3:
			return color.Formats()
		}

		return nil
	}

	v, ok := eng.Context().Lookup(segs[0])

	for _, seg := range segs[1:] {
		if !ok {
			break
		}

		v, ok = v.Get(seg)
	}

	if !ok || v.Kind() != lang.KindMap {
		return nil
	}

	return v.Keys()
}

// complete returns the fuzzy matches for the word under the cursor, best
// first, with the word's boundaries. An empty word after a dot or a pipe
// lists every candidate; an empty top-level word lists nothing.
func complete(eng *lang.Engine, input string, cursor int) (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(input, cursor)

	// A colon command is a single word that includes its colon.
	if wordStart == 1 && strings.HasPrefix(input, ":") {
		word, wordStart = ":"+word, 0
	}

	cands := candidates(eng, input, wordStart)
	if len(cands) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if parentPath(input, wordStart) == "" && !precedes(input, wordStart, "|") {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(cands))
		for i, c := range cands {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, cands), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
