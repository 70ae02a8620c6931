package lang

// Node is an element of a parsed template body.
type Node interface {
	Span() Span
	node()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expression()
}

// Raw is literal text copied to the output unchanged.
type Raw struct {
	Text string
	Pos  Span
}

// Segment is one component of an access path.
type Segment struct {
	Name   string
	Pos    Span
	Quoted bool
}

// Access is a dotted path such as colors.primary.dark.hex.
type Access struct {
	Segments []Segment
	Pos      Span
}

// Literal is a constant value.
type Literal struct {
	Value SpannedValue
}

// BinaryOp is a single arithmetic operation; it never chains.
type BinaryOp struct {
	LHS Expression
	Op  Operator
	RHS Expression
	Pos Span
}

// Operator is one of + - * /.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

func (o Operator) String() string { return string(rune(o)) }

// Filter is one stage of a filter chain.
type Filter struct {
	Name    string
	NamePos Span
	Args    []Expression
	Pos     Span
}

// AccessWithFilters threads its base value through a chain of filters.
type AccessWithFilters struct {
	Base    Expression
	Filters []Filter
	Pos     Span
}

// Range is a half-open integer interval [Start, End).
type Range struct {
	Start int64
	End   int64
	Pos   Span
}

// ForLoop repeats Body for each element of Iterable.
type ForLoop struct {
	Vars     []Segment
	Iterable Expression
	Body     []Node
	Pos      Span
}

// If renders Then when Cond holds and Else otherwise.
type If struct {
	Cond Expression
	Then []Node
	Else []Node
	Pos  Span
}

// Include splices the output of another registered template.
type Include struct {
	Name    string
	NamePos Span
	Pos     Span
}

func (n *Raw) Span() Span               { return n.Pos }
func (n *Access) Span() Span            { return n.Pos }
func (n *Literal) Span() Span           { return n.Value.Span }
func (n *BinaryOp) Span() Span          { return n.Pos }
func (n *AccessWithFilters) Span() Span { return n.Pos }
func (n *Range) Span() Span             { return n.Pos }
func (n *ForLoop) Span() Span           { return n.Pos }
func (n *If) Span() Span                { return n.Pos }
func (n *Include) Span() Span           { return n.Pos }

func (*Raw) node()               {}
func (*Access) node()            {}
func (*Literal) node()           {}
func (*BinaryOp) node()          {}
func (*AccessWithFilters) node() {}
func (*Range) node()             {}
func (*ForLoop) node()           {}
func (*If) node()                {}
func (*Include) node()           {}

func (*Access) expression()            {}
func (*Literal) expression()           {}
func (*BinaryOp) expression()          {}
func (*AccessWithFilters) expression() {}
func (*Range) expression()             {}

// Path returns the segment names of a.
func (a *Access) Path() []string {
	p := make([]string, len(a.Segments))
	for i, s := range a.Segments {
		p[i] = s.Name
	}

	return p
}

// Template is a named, parsed source.
type Template struct {
	Name   string
	Source string
	Nodes  []Node

	// Err is set when Source failed to parse; the template cannot render.
	Err *ParseError
}
