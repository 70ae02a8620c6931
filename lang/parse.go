package lang

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Syntax holds the delimiter pairs recognized by the parser.
type Syntax struct {
	ExprLeft   string
	ExprRight  string
	BlockLeft  string
	BlockRight string
}

// DefaultSyntax is {{ expression }} and <* block *>.
var DefaultSyntax = Syntax{
	ExprLeft:   "{{",
	ExprRight:  "}}",
	BlockLeft:  "<*",
	BlockRight: "*>",
}

// Validate reports whether every delimiter is set and the two opening
// delimiters can be told apart.
func (s Syntax) Validate() error {
	for _, d := range []string{s.ExprLeft, s.ExprRight, s.BlockLeft, s.BlockRight} {
		if strings.TrimSpace(d) == "" {
			return ErrParse.Wrap(errString("empty delimiter"))
		}
	}

	if strings.HasPrefix(s.ExprLeft, s.BlockLeft) ||
		strings.HasPrefix(s.BlockLeft, s.ExprLeft) {
		return ErrParse.Wrap(errString("ambiguous opening delimiters " +
			strconv.Quote(s.ExprLeft) + " and " + strconv.Quote(s.BlockLeft)))
	}

	return nil
}

type errString string

func (e errString) Error() string { return string(e) }

// ParseError reports source rejected by the parser.
type ParseError struct {
	Template string
	Source   string
	Span     Span
	// Msg describes the problem. When empty, the error reads as an
	// unexpected Found.
	Msg      string
	Found    string
	Expected []string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := Locate(e.Source, e.Span.Start)

	var b strings.Builder

	b.WriteString("parse error")

	if e.Template != "" {
		b.WriteString(" in ")
		b.WriteString(strconv.Quote(e.Template))
	}

	b.WriteString(" at line ")
	b.WriteString(strconv.Itoa(loc.Line))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(loc.Column))
	b.WriteString(": ")
	b.WriteString(e.Message())
	b.WriteByte('\n')

	// Line with number, then a caret under the column.
	num := strconv.Itoa(loc.Line)
	b.WriteString("  " + num + " | " + loc.Text + "\n")
	b.WriteString(strings.Repeat(" ", len(num)+5+loc.Column-1) + "^\n")

	if len(e.Expected) > 0 {
		b.WriteString("\texpected: ")
		b.WriteString(quoteList(e.Expected))
	}

	return strings.TrimRight(b.String(), "\n")
}

// Message returns the one-line description of the error.
func (e *ParseError) Message() string {
	if e.Msg != "" {
		return e.Msg
	}

	return "unexpected " + e.Found
}

// Unwrap returns [ErrParse].
func (e *ParseError) Unwrap() error { return ErrParse }

// ErrSpan returns the offending span.
func (e *ParseError) ErrSpan() Span { return e.Span }

// Parse parses src into a template body using the given delimiters.
// The returned error, if any, is a *ParseError.
func Parse(name, src string, syn Syntax) ([]Node, error) {
	p := &parser{name: name, src: src, syn: syn}

	nodes, _, err := p.parseBody(Span{})
	if err != nil {
		return nil, err
	}

	return nodes, nil
}

// parser holds the parser state.
type parser struct {
	name string
	src  string
	pos  int
	syn  Syntax
}

const (
	kwFor     = "for"
	kwIn      = "in"
	kwIf      = "if"
	kwElse    = "else"
	kwEndFor  = "endfor"
	kwEndIf   = "endif"
	kwInclude = "include"
)

// parseBody parses nodes until end of input or a block holding one of the
// stop keywords, which it consumes and returns.
func (p *parser) parseBody(open Span, stops ...string) ([]Node, string, error) {
	var nodes []Node

	for {
		if p.eof() {
			if len(stops) > 0 {
				return nil, "", &ParseError{
					Template: p.name,
					Source:   p.src,
					Span:     open,
					Msg:      "unterminated block",
					Found:    "end of input",
					Expected: p.blockTags(stops),
				}
			}

			return nodes, "", nil
		}

		switch {
		case p.hasPrefix(p.syn.ExprLeft):
			p.advance(len(p.syn.ExprLeft))

			expr, err := p.parseExprClose()
			if err != nil {
				return nil, "", err
			}

			nodes = append(nodes, expr)

		case p.hasPrefix(p.syn.BlockLeft):
			start := p.pos
			p.advance(len(p.syn.BlockLeft))
			p.skipSpace()

			kwStart := p.pos
			kw := p.ident()

			var (
				node Node
				err  error
			)

			switch kw {
			case kwFor:
				node, err = p.parseFor(start)
			case kwIf:
				node, err = p.parseIf(start)
			case kwInclude:
				node, err = p.parseInclude(start)
			case kwElse, kwEndFor, kwEndIf:
				if !slices.Contains(stops, kw) {
					return nil, "", p.errorAt(Span{kwStart, p.pos},
						"unexpected "+strconv.Quote(kw), p.expectedKeywords(stops))
				}

				if err := p.closeBlock(); err != nil {
					return nil, "", err
				}

				return nodes, kw, nil
			default:
				p.pos = kwStart

				return nil, "", p.unexpected(p.expectedKeywords(stops)...)
			}

			if err != nil {
				return nil, "", err
			}

			nodes = append(nodes, node)

		default:
			nodes = append(nodes, p.parseRaw())
		}
	}
}

func (p *parser) parseRaw() *Raw {
	start := p.pos
	end := len(p.src)

	for _, d := range []string{p.syn.ExprLeft, p.syn.BlockLeft} {
		if i := strings.Index(p.src[start:], d); i >= 0 && start+i < end {
			end = start + i
		}
	}

	p.pos = end

	return &Raw{Text: p.src[start:end], Pos: Span{start, end}}
}

// parseExprClose parses an expression after an opening expression delimiter
// and consumes the closing one.
func (p *parser) parseExprClose() (Expression, error) {
	p.skipSpace()

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if !p.hasPrefix(p.syn.ExprRight) {
		exp := []string{p.syn.ExprRight, "|"}
		if _, ok := expr.(*AccessWithFilters); ok {
			exp = append(exp, ",")
		}

		return nil, p.unexpected(exp...)
	}

	p.advance(len(p.syn.ExprRight))

	return expr, nil
}

// parseExpr parses: operand [op operand] ('|' filter)*.
func (p *parser) parseExpr() (Expression, error) {
	start := p.pos

	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if lhs, err = p.parseBinary(start, lhs, p.parseOperand); err != nil {
		return nil, err
	}

	var filters []Filter

	for {
		p.skipSpace()

		if p.peek() != '|' {
			break
		}

		p.advance(1)

		f, err := p.parseFilter()
		if err != nil {
			return nil, err
		}

		filters = append(filters, f)
	}

	if len(filters) == 0 {
		return lhs, nil
	}

	return &AccessWithFilters{
		Base:    lhs,
		Filters: filters,
		Pos:     Span{start, filters[len(filters)-1].Pos.End},
	}, nil
}

// parseBinary parses an optional operator and right operand following lhs.
func (p *parser) parseBinary(
	start int,
	lhs Expression,
	operand func() (Expression, error),
) (Expression, error) {
	save := p.pos
	p.skipSpace()

	op, ok := p.operator()
	if !ok {
		p.pos = save

		return lhs, nil
	}

	p.advance(1)
	p.skipSpace()

	rhs, err := operand()
	if err != nil {
		return nil, err
	}

	return &BinaryOp{LHS: lhs, Op: op, RHS: rhs, Pos: Span{start, rhs.Span().End}}, nil
}

func (p *parser) parseOperand() (Expression, error) {
	r := p.peek()

	switch {
	case p.hasPrefix(p.syn.ExprLeft):
		return p.parseNested()

	case r == '"':
		seg, err := p.quoted()
		if err != nil {
			return nil, err
		}

		if p.peekPathDot() {
			return p.parsePath(seg)
		}

		return &Literal{Value: SpannedValue{IdentValue(seg.Name), seg.Pos}}, nil

	case p.atNumber():
		return p.parseNumber()

	case isIdentifierStart(r):
		start := p.pos
		seg := Segment{Name: p.ident(), Pos: Span{start, p.pos}}

		if !p.peekPathDot() {
			if b, ok := boolLiteral(seg.Name); ok {
				return &Literal{Value: SpannedValue{BoolValue(b), seg.Pos}}, nil
			}
		}

		return p.parsePath(seg)
	}

	return nil, p.unexpected("identifier", "string", "number", p.syn.ExprLeft)
}

func (p *parser) parseNested() (Expression, error) {
	p.advance(len(p.syn.ExprLeft))

	return p.parseExprClose()
}

func (p *parser) parsePath(first Segment) (*Access, error) {
	segs := []Segment{first}

	for p.peekPathDot() {
		p.advance(1)

		seg, err := p.segment()
		if err != nil {
			return nil, err
		}

		segs = append(segs, seg)
	}

	return &Access{
		Segments: segs,
		Pos:      Span{first.Pos.Start, segs[len(segs)-1].Pos.End},
	}, nil
}

func (p *parser) segment() (Segment, error) {
	if p.peek() == '"' {
		return p.quoted()
	}

	start := p.pos

	name := p.ident()
	if name == "" {
		return Segment{}, p.unexpected("identifier", "string")
	}

	return Segment{Name: name, Pos: Span{start, p.pos}}, nil
}

// quoted parses a double-quoted string. Only \" and \\ are escapes.
func (p *parser) quoted() (Segment, error) {
	start := p.pos
	p.advance(1)

	var b strings.Builder

	for {
		if p.eof() {
			return Segment{}, &ParseError{
				Template: p.name,
				Source:   p.src,
				Span:     Span{start, p.pos},
				Msg:      "unterminated string",
				Found:    "end of input",
				Expected: []string{`"`},
			}
		}

		r, size := utf8.DecodeRuneInString(p.src[p.pos:])

		switch r {
		case '"':
			p.advance(size)

			return Segment{Name: b.String(), Pos: Span{start, p.pos}, Quoted: true}, nil

		case '\\':
			if next := p.peekAt(1); next == '"' || next == '\\' {
				b.WriteByte(next)
				p.advance(2)

				continue
			}
		}

		b.WriteRune(r)
		p.advance(size)
	}
}

func (p *parser) parseNumber() (*Literal, error) {
	start := p.pos

	if c := p.peek(); c == '-' || c == '+' {
		p.advance(1)
	}

	p.digits()

	isFloat := false

	if p.peek() == '.' && isDigit(p.peekAt(1)) {
		isFloat = true

		p.advance(1)
		p.digits()
	}

	text := p.src[start:p.pos]
	span := Span{start, p.pos}

	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorAt(span, "invalid number "+strconv.Quote(text), nil)
		}

		return &Literal{Value: SpannedValue{FloatValue(f), span}}, nil
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorAt(span, "invalid number "+strconv.Quote(text), nil)
	}

	return &Literal{Value: SpannedValue{IntValue(i), span}}, nil
}

// parseFilter parses: name [':' arg (',' arg)*].
func (p *parser) parseFilter() (Filter, error) {
	p.skipSpace()

	start := p.pos

	name := p.ident()
	if name == "" {
		return Filter{}, p.unexpected("filter name")
	}

	f := Filter{Name: name, NamePos: Span{start, p.pos}, Pos: Span{start, p.pos}}

	save := p.pos
	p.skipSpace()

	if p.peek() != ':' {
		p.pos = save

		return f, nil
	}

	p.advance(1)

	for {
		p.skipSpace()

		arg, err := p.parseArg()
		if err != nil {
			return Filter{}, err
		}

		f.Args = append(f.Args, arg)
		f.Pos.End = arg.Span().End

		save = p.pos
		p.skipSpace()

		if p.peek() != ',' {
			p.pos = save

			return f, nil
		}

		p.advance(1)
	}
}

// parseArg parses a filter argument: a literal, a nested expression, or a
// binary operation of those. A bare word is a string literal.
func (p *parser) parseArg() (Expression, error) {
	start := p.pos

	lhs, err := p.argOperand()
	if err != nil {
		return nil, err
	}

	return p.parseBinary(start, lhs, p.argOperand)
}

func (p *parser) argOperand() (Expression, error) {
	r := p.peek()

	switch {
	case p.hasPrefix(p.syn.ExprLeft):
		return p.parseNested()

	case r == '"':
		seg, err := p.quoted()
		if err != nil {
			return nil, err
		}

		return &Literal{Value: SpannedValue{IdentValue(seg.Name), seg.Pos}}, nil

	case p.atNumber():
		return p.parseNumber()

	case isIdentifierStart(r):
		start := p.pos
		word := p.ident()
		span := Span{start, p.pos}

		if b, ok := boolLiteral(word); ok {
			return &Literal{Value: SpannedValue{BoolValue(b), span}}, nil
		}

		return &Literal{Value: SpannedValue{IdentValue(word), span}}, nil
	}

	return nil, p.unexpected("argument", p.syn.ExprLeft)
}

// parseFor parses the remainder of: for a[, b] in (path | int..int).
func (p *parser) parseFor(start int) (*ForLoop, error) {
	var vars []Segment

	for {
		p.skipSpace()

		vs := p.pos

		name := p.ident()
		if name == "" {
			return nil, p.unexpected("loop variable")
		}

		vars = append(vars, Segment{Name: name, Pos: Span{vs, p.pos}})

		p.skipSpace()

		if p.peek() != ',' {
			break
		}

		p.advance(1)
	}

	if len(vars) > 2 {
		return nil, p.errorAt(
			vars[2].Pos.Join(vars[len(vars)-1].Pos),
			"too many loop variables: a loop binds at most 2",
			[]string{kwIn},
		)
	}

	kwStart := p.pos
	if kw := p.ident(); kw != kwIn {
		p.pos = kwStart

		return nil, p.unexpected(kwIn, ",")
	}

	p.skipSpace()

	var (
		iter Expression
		err  error
	)

	switch r := p.peek(); {
	case p.atNumber():
		iter, err = p.parseRange()
	case r == '"' || isIdentifierStart(r):
		var seg Segment
		if seg, err = p.segment(); err == nil {
			iter, err = p.parsePath(seg)
		}
	default:
		err = p.unexpected("path", "range")
	}

	if err != nil {
		return nil, err
	}

	if err := p.closeBlock(); err != nil {
		return nil, err
	}

	open := Span{start, p.pos}

	body, _, err := p.parseBody(open, kwEndFor)
	if err != nil {
		return nil, err
	}

	return &ForLoop{Vars: vars, Iterable: iter, Body: body, Pos: Span{start, p.pos}}, nil
}

func (p *parser) parseRange() (*Range, error) {
	start := p.pos

	lo, err := p.parseNumber()
	if err != nil {
		return nil, err
	}

	if !p.hasPrefix("..") {
		return nil, p.unexpected("..")
	}

	p.advance(2)

	if !p.atNumber() {
		return nil, p.unexpected("integer")
	}

	hi, err := p.parseNumber()
	if err != nil {
		return nil, err
	}

	a, aok := lo.Value.Int()
	b, bok := hi.Value.Int()

	switch {
	case !aok:
		return nil, p.errorAt(lo.Value.Span, "range bounds must be integers", nil)
	case !bok:
		return nil, p.errorAt(hi.Value.Span, "range bounds must be integers", nil)
	}

	return &Range{Start: a, End: b, Pos: Span{start, p.pos}}, nil
}

// parseIf parses the remainder of: if cond ... [else ...] endif.
func (p *parser) parseIf(start int) (*If, error) {
	p.skipSpace()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if err := p.closeBlock(); err != nil {
		return nil, err
	}

	open := Span{start, p.pos}

	then, stop, err := p.parseBody(open, kwElse, kwEndIf)
	if err != nil {
		return nil, err
	}

	n := &If{Cond: cond, Then: then}

	if stop == kwElse {
		if n.Else, _, err = p.parseBody(open, kwEndIf); err != nil {
			return nil, err
		}
	}

	n.Pos = Span{start, p.pos}

	return n, nil
}

// parseInclude parses the remainder of: include name. A bare name may also
// contain '.', '-' and '/'.
func (p *parser) parseInclude(start int) (*Include, error) {
	p.skipSpace()

	var seg Segment

	if p.peek() == '"' {
		var err error
		if seg, err = p.quoted(); err != nil {
			return nil, err
		}
	} else {
		ns := p.pos

		for !p.eof() && !p.hasPrefix(p.syn.BlockRight) {
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if !isIdentifierContinue(r) && !strings.ContainsRune(".-/", r) {
				break
			}

			p.advance(size)
		}

		seg = Segment{Name: p.src[ns:p.pos], Pos: Span{ns, p.pos}}
	}

	if seg.Name == "" {
		return nil, p.unexpected("template name")
	}

	if err := p.closeBlock(); err != nil {
		return nil, err
	}

	return &Include{Name: seg.Name, NamePos: seg.Pos, Pos: Span{start, p.pos}}, nil
}

func (p *parser) closeBlock() error {
	p.skipSpace()

	if !p.hasPrefix(p.syn.BlockRight) {
		return p.unexpected(p.syn.BlockRight)
	}

	p.advance(len(p.syn.BlockRight))

	return nil
}

func (p *parser) blockTags(kws []string) []string {
	tags := make([]string, len(kws))
	for i, kw := range kws {
		tags[i] = p.syn.BlockLeft + " " + kw + " " + p.syn.BlockRight
	}

	return tags
}

func (p *parser) expectedKeywords(stops []string) []string {
	return append([]string{kwFor, kwIf, kwInclude}, stops...)
}

// Error construction

func (p *parser) errorAt(span Span, msg string, expected []string) *ParseError {
	return &ParseError{
		Template: p.name,
		Source:   p.src,
		Span:     span,
		Msg:      msg,
		Found:    p.found(span.Start),
		Expected: expected,
	}
}

func (p *parser) unexpected(expected ...string) *ParseError {
	end := p.pos
	if !p.eof() {
		_, size := utf8.DecodeRuneInString(p.src[p.pos:])
		end += size
	}

	return &ParseError{
		Template: p.name,
		Source:   p.src,
		Span:     Span{p.pos, end},
		Found:    p.found(p.pos),
		Expected: expected,
	}
}

// found describes the input at off for error messages.
func (p *parser) found(off int) string {
	if off >= len(p.src) {
		return "end of input"
	}

	r, _ := utf8.DecodeRuneInString(p.src[off:])
	if r == '\n' {
		return "end of line"
	}

	return strconv.QuoteRune(r)
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])

	return r
}

// peekAt returns the byte n bytes ahead, or 0 past the end.
func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}

	return p.src[p.pos+n]
}

func (p *parser) advance(n int) {
	p.pos = min(p.pos+n, len(p.src))
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) hasPrefix(s string) bool {
	return s != "" && strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) skipSpace() {
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		p.advance(size)
	}
}

func (p *parser) ident() string {
	start := p.pos

	if !isIdentifierStart(p.peek()) {
		return ""
	}

	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentifierContinue(r) {
			break
		}

		p.advance(size)
	}

	return p.src[start:p.pos]
}

func (p *parser) digits() {
	for !p.eof() && isDigit(p.src[p.pos]) {
		p.pos++
	}
}

// atNumber reports whether an optionally signed integer starts here.
func (p *parser) atNumber() bool {
	c := p.peekAt(0)
	if c == '-' || c == '+' {
		c = p.peekAt(1)
	}

	return isDigit(c)
}

// peekPathDot reports whether a '.' continues a path. A ".." is a range.
func (p *parser) peekPathDot() bool {
	return p.peekAt(0) == '.' && p.peekAt(1) != '.'
}

// operator returns the binary operator at the current position, unless the
// character begins a closing delimiter.
func (p *parser) operator() (Operator, bool) {
	if p.hasPrefix(p.syn.ExprRight) || p.hasPrefix(p.syn.BlockRight) {
		return 0, false
	}

	switch op := Operator(p.peekAt(0)); op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return op, true
	}

	return 0, false
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func boolLiteral(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}

	return false, false
}
