package fluent

import (
	"fmt"
	"os"
	"strings"
)

// ParseError describes a recoverable syntax error. The offending text is
// kept in the resource as Junk.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ---------------------------------------------------------------------------
// Top level
// ---------------------------------------------------------------------------

// ParseFile reads and parses a .ftl file from disk. The returned error is
// only set when the file cannot be read; syntax problems are reported in
// the ParseError slice.
func ParseFile(path string) (*Resource, []*ParseError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	res, errs := Parse(data)
	return res, errs, nil
}

// Parse parses .ftl content. It never fails: unparseable lines become Junk
// entries and are described by the returned errors.
func Parse(data []byte) (*Resource, []*ParseError) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	res := &Resource{}
	var errs []*ParseError
	var pending *Comment

	flush := func() {
		if pending != nil {
			res.Entries = append(res.Entries, pending)
			pending = nil
		}
	}

	for i := 0; i < len(lines); {
		line := lines[i]

		switch {
		case strings.TrimSpace(line) == "":
			flush()
			i++

		case strings.HasPrefix(line, "#"):
			kind, content, ok := parseCommentLine(line)
			if !ok {
				flush()
				errs = append(errs, &ParseError{Line: i + 1, Message: "malformed comment"})
				res.Entries = append(res.Entries, &Junk{Content: line, Line: i + 1})
				i++
				continue
			}
			if pending != nil && pending.Kind != kind {
				flush()
			}
			if pending == nil {
				pending = &Comment{Kind: kind}
			}
			pending.Lines = append(pending.Lines, content)
			i++

		case isEntryStart(line):
			end := entryEnd(lines, i)
			block := strings.Join(lines[i:end], "\n")
			e, err := parseEntry(block, i+1)
			if err != nil {
				flush()
				errs = append(errs, err)
				res.Entries = append(res.Entries, &Junk{Content: strings.TrimRight(block, " \n"), Line: i + 1})
				i = end
				continue
			}
			if pending != nil && pending.Kind == CommentStandalone {
				switch e := e.(type) {
				case *Message:
					e.Comment = pending
				case *Term:
					e.Comment = pending
				}
				pending = nil
			}
			flush()
			res.Entries = append(res.Entries, e)
			i = end

		default:
			flush()
			start := i
			i++
			for i < len(lines) && !isEntryStart(lines[i]) && !strings.HasPrefix(lines[i], "#") {
				i++
			}
			errs = append(errs, &ParseError{Line: start + 1, Message: "expected a message, term or comment"})
			res.Entries = append(res.Entries, &Junk{
				Content: strings.TrimRight(strings.Join(lines[start:i], "\n"), " \n"),
				Line:    start + 1,
			})
		}
	}
	flush()

	return res, errs
}

// parseCommentLine splits "## text" into its kind and content.
func parseCommentLine(line string) (CommentKind, string, bool) {
	n := 0
	for n < len(line) && n < 3 && line[n] == '#' {
		n++
	}
	rest := line[n:]
	if rest != "" && rest[0] != ' ' {
		return 0, "", false
	}
	kind := CommentKind(n - 1)
	return kind, strings.TrimPrefix(rest, " "), true
}

func isEntryStart(line string) bool {
	if line == "" {
		return false
	}
	if isAlpha(line[0]) {
		return true
	}
	return line[0] == '-' && len(line) > 1 && isAlpha(line[1])
}

// entryEnd returns the index of the first line after the entry starting at
// start. Indented lines continue the entry; blank lines continue it only
// when more indented lines follow.
func entryEnd(lines []string, start int) int {
	j := start + 1
	for j < len(lines) {
		l := lines[j]
		if strings.TrimSpace(l) == "" {
			k := j + 1
			for k < len(lines) && strings.TrimSpace(lines[k]) == "" {
				k++
			}
			if k < len(lines) && isIndented(lines[k]) {
				j = k
				continue
			}
			return j
		}
		if !isIndented(l) {
			return j
		}
		j++
	}
	return j
}

func isIndented(l string) bool {
	return l != "" && (l[0] == ' ' || l[0] == '\t')
}

// ---------------------------------------------------------------------------
// Entry parser
// ---------------------------------------------------------------------------

type parser struct {
	src   string
	pos   int
	line0 int
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	pos := min(p.pos, len(p.src))
	return &ParseError{
		Line:    p.line0 + strings.Count(p.src[:pos], "\n"),
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipInline() {
	for !p.eof() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) skipBlank() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) expect(c byte) *ParseError {
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, found end of entry", c)
		}
		return p.errorf("expected %q, found %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *parser) identifier() (string, *ParseError) {
	start := p.pos
	if p.eof() || !isAlpha(p.src[p.pos]) {
		return "", p.errorf("expected an identifier")
	}
	p.pos++
	for !p.eof() && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func parseEntry(block string, line int) (Entry, *ParseError) {
	p := &parser{src: block, line0: line}

	isTerm := p.peek() == '-'
	if isTerm {
		p.pos++
	}
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}
	p.skipInline()
	if err := p.expect('='); err != nil {
		return nil, err
	}
	p.skipInline()

	value, err := p.pattern(false)
	if err != nil {
		return nil, err
	}

	var attrs []*Attribute
	for {
		p.skipBlank()
		if p.eof() {
			break
		}
		if p.peek() != '.' {
			return nil, p.errorf("unexpected %q after value", p.peek())
		}
		p.pos++
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		p.skipInline()
		if err := p.expect('='); err != nil {
			return nil, err
		}
		p.skipInline()
		av, err := p.pattern(false)
		if err != nil {
			return nil, err
		}
		if av == nil {
			return nil, p.errorf("attribute %q has no value", name)
		}
		attrs = append(attrs, &Attribute{ID: name, Value: av})
	}

	if isTerm {
		if value == nil {
			return nil, p.errorf("term -%s has no value", id)
		}
		return &Term{ID: id, Value: value, Attributes: attrs}, nil
	}
	return &Message{ID: id, Value: value, Attributes: attrs}, nil
}

// ---------------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------------

// pattern reads elements up to the end of the entry, an attribute line or,
// inside a select expression, the next variant or closing brace. It returns
// nil for an empty pattern.
func (p *parser) pattern(inSelect bool) (*Pattern, *ParseError) {
	var elems []Element
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			elems = append(elems, &Text{Value: text.String()})
			text.Reset()
		}
	}

loop:
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case '{':
			flushText()
			pl, err := p.placeable()
			if err != nil {
				return nil, err
			}
			elems = append(elems, pl)
		case '}':
			if inSelect {
				break loop
			}
			return nil, p.errorf("unbalanced closing brace")
		case '\n':
			k := p.pos + 1
			for k < len(p.src) && isSpace(p.src[k]) {
				k++
			}
			if k >= len(p.src) {
				break loop
			}
			next := p.src[k]
			if next == '.' && !inSelect {
				break loop
			}
			if inSelect && (next == '[' || next == '*' || next == '}') {
				break loop
			}
			text.WriteByte('\n')
			p.pos++
		default:
			text.WriteByte(c)
			p.pos++
		}
	}
	flushText()

	elems = dedent(elems)
	if len(elems) == 0 {
		return nil, nil
	}
	return &Pattern{Elements: elems}, nil
}

// dedent removes the common indentation of continuation lines, drops the
// leading line break of block patterns and trims trailing whitespace.
func dedent(elems []Element) []Element {
	common := -1
	for ei, el := range elems {
		t, ok := el.(*Text)
		if !ok {
			continue
		}
		s := t.Value
		for i := 0; i < len(s); i++ {
			if s[i] != '\n' {
				continue
			}
			q := i + 1
			for q < len(s) && (s[q] == ' ' || s[q] == '\t') {
				q++
			}
			if q < len(s) && s[q] == '\n' {
				continue // blank line
			}
			if q == len(s) && ei == len(elems)-1 {
				continue // trailing whitespace
			}
			if n := q - i - 1; common < 0 || n < common {
				common = n
			}
		}
	}
	if common < 0 {
		common = 0
	}

	out := elems[:0]
	for _, el := range elems {
		t, ok := el.(*Text)
		if !ok {
			out = append(out, el)
			continue
		}
		lines := strings.Split(t.Value, "\n")
		for i := 1; i < len(lines); i++ {
			l := lines[i]
			if strings.TrimSpace(l) == "" && i < len(lines)-1 {
				lines[i] = ""
				continue
			}
			n := 0
			for n < len(l) && n < common && (l[n] == ' ' || l[n] == '\t') {
				n++
			}
			lines[i] = l[n:]
		}
		t.Value = strings.Join(lines, "\n")
		out = append(out, t)
	}

	if len(out) > 0 {
		if t, ok := out[0].(*Text); ok {
			if strings.HasPrefix(t.Value, "\n") {
				t.Value = strings.TrimLeft(t.Value, "\n")
			}
		}
		if t, ok := out[len(out)-1].(*Text); ok {
			t.Value = strings.TrimRight(t.Value, " \t\n")
		}
	}

	trimmed := out[:0]
	for _, el := range out {
		if t, ok := el.(*Text); ok && t.Value == "" {
			continue
		}
		trimmed = append(trimmed, el)
	}
	return trimmed
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func (p *parser) placeable() (*Placeable, *ParseError) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.skipBlank()

	expr, err := p.inlineExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()

	if strings.HasPrefix(p.src[p.pos:], "->") {
		p.pos += 2
		variants, err := p.variants()
		if err != nil {
			return nil, err
		}
		expr = &SelectExpression{Selector: expr, Variants: variants}
		p.skipBlank()
	}

	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return &Placeable{Expression: expr}, nil
}

func (p *parser) variants() ([]*Variant, *ParseError) {
	var variants []*Variant
	hasDefault := false
	for {
		p.skipBlank()
		c := p.peek()
		if c != '[' && c != '*' {
			break
		}
		v := &Variant{}
		if c == '*' {
			if hasDefault {
				return nil, p.errorf("multiple default variants")
			}
			v.Default = true
			hasDefault = true
			p.pos++
		}
		if err := p.expect('['); err != nil {
			return nil, err
		}
		end := strings.IndexAny(p.src[p.pos:], "]\n")
		if end < 0 || p.src[p.pos+end] != ']' {
			return nil, p.errorf("unterminated variant key")
		}
		v.Key = strings.TrimSpace(p.src[p.pos : p.pos+end])
		if v.Key == "" {
			return nil, p.errorf("empty variant key")
		}
		p.pos += end + 1
		p.skipInline()

		value, err := p.pattern(true)
		if err != nil {
			return nil, err
		}
		if value == nil {
			value = &Pattern{}
		}
		v.Value = value
		variants = append(variants, v)
	}
	if len(variants) == 0 {
		return nil, p.errorf("select expression has no variants")
	}
	if !hasDefault {
		return nil, p.errorf("select expression has no default variant")
	}
	return variants, nil
}

func (p *parser) inlineExpression() (Expression, *ParseError) {
	c := p.peek()
	switch {
	case c == '"':
		return p.stringLiteral()
	case isDigit(c) || (c == '-' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		return p.numberLiteral(), nil
	case c == '-':
		p.pos++
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		ref := &TermReference{ID: id}
		if p.peek() == '.' {
			p.pos++
			if ref.Attribute, err = p.identifier(); err != nil {
				return nil, err
			}
		}
		save := p.pos
		p.skipInline()
		if p.peek() == '(' {
			if ref.Arguments, err = p.callArguments(); err != nil {
				return nil, err
			}
		} else {
			p.pos = save
		}
		return ref, nil
	case c == '$':
		p.pos++
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		return &VariableReference{ID: id}, nil
	case c == '{':
		return p.placeable()
	case isAlpha(c):
		id, _ := p.identifier()
		if p.peek() == '(' {
			args, err := p.callArguments()
			if err != nil {
				return nil, err
			}
			return &FunctionReference{ID: id, Arguments: args}, nil
		}
		ref := &MessageReference{ID: id}
		if p.peek() == '.' {
			p.pos++
			attr, err := p.identifier()
			if err != nil {
				return nil, err
			}
			ref.Attribute = attr
		}
		return ref, nil
	}
	if p.eof() {
		return nil, p.errorf("expected an expression, found end of entry")
	}
	return nil, p.errorf("expected an expression, found %q", c)
}

func (p *parser) stringLiteral() (*StringLiteral, *ParseError) {
	p.pos++ // opening quote
	start := p.pos
	for !p.eof() {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
			continue
		case '\n':
			return nil, p.errorf("unterminated string literal")
		case '"':
			lit := &StringLiteral{Value: p.src[start:p.pos]}
			p.pos++
			return lit, nil
		}
		p.pos++
	}
	return nil, p.errorf("unterminated string literal")
}

func (p *parser) numberLiteral() *NumberLiteral {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for !p.eof() && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.peek() == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]) {
		p.pos++
		for !p.eof() && isDigit(p.src[p.pos]) {
			p.pos++
		}
	}
	return &NumberLiteral{Value: p.src[start:p.pos]}
}

func (p *parser) callArguments() (*CallArguments, *ParseError) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	args := &CallArguments{}
	for {
		p.skipBlank()
		if p.peek() == ')' {
			p.pos++
			return args, nil
		}

		named := false
		if isAlpha(p.peek()) {
			save := p.pos
			name, _ := p.identifier()
			p.skipBlank()
			if p.peek() == ':' {
				p.pos++
				p.skipBlank()
				var val Expression
				var err *ParseError
				switch c := p.peek(); {
				case c == '"':
					val, err = p.stringLiteral()
				case isDigit(c) || c == '-':
					val = p.numberLiteral()
				default:
					err = p.errorf("named argument %q must be a literal", name)
				}
				if err != nil {
					return nil, err
				}
				args.Named = append(args.Named, &NamedArgument{Name: name, Value: val})
				named = true
			} else {
				p.pos = save
			}
		}
		if !named {
			expr, err := p.inlineExpression()
			if err != nil {
				return nil, err
			}
			args.Positional = append(args.Positional, expr)
		}

		p.skipBlank()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
		default:
			return nil, p.errorf("expected ',' or ')' in call arguments")
		}
	}
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

func isIdentChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_' || c == '-'
}
