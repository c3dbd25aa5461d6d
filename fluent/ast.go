// Package fluent implements reading and writing of Fluent (.ftl) resources.
//
// A resource is an ordered list of entries: messages, terms and comments.
// Message and term values are patterns, i.e. runs of literal text
// interleaved with placeables ({ $var }, { -term }, { NUMBER($n) }, ...).
//
// The parser is tolerant: lines it cannot understand are kept as Junk and
// reported as ParseError values, so a damaged file still yields every entry
// that could be recovered.
//
// Document order is significant and is never changed by this package.
package fluent

import "strings"

// Comment tags recognized in standalone comments attached to messages.
const (
	// TagHandTranslated pins a target message against machine translation.
	TagHandTranslated = "tt-hand-translated"
	// TagLangName marks a message whose value is the target language's name.
	TagLangName = "tt-lang-name"
)

// ---------------------------------------------------------------------------
// Entries
// ---------------------------------------------------------------------------

// Entry is one top-level item of a Resource: *Message, *Term, *Comment or *Junk.
type Entry interface {
	entry()
}

// CommentKind is the scope of a comment: #, ## or ###.
type CommentKind int

const (
	CommentStandalone CommentKind = iota // #
	CommentGroup                         // ##
	CommentResource                      // ###
)

// Prefix returns the sigil used for the comment kind.
func (k CommentKind) Prefix() string {
	switch k {
	case CommentGroup:
		return "##"
	case CommentResource:
		return "###"
	default:
		return "#"
	}
}

// Comment is a block of consecutive comment lines of the same kind.
type Comment struct {
	Kind  CommentKind
	Lines []string
}

// HasTag reports whether a standalone comment contains tag in any line.
// Group and resource comments never carry tags.
func (c *Comment) HasTag(tag string) bool {
	if c == nil || c.Kind != CommentStandalone {
		return false
	}
	for _, l := range c.Lines {
		if strings.Contains(l, tag) {
			return true
		}
	}
	return false
}

// Attribute is a .name = pattern pair under a message or term.
type Attribute struct {
	ID    string
	Value *Pattern
}

// Message is a translatable entry. Value is nil for attribute-only messages.
type Message struct {
	ID         string
	Value      *Pattern
	Attributes []*Attribute
	Comment    *Comment
}

// Term is a -prefixed entry. Terms are never machine translated.
type Term struct {
	ID         string
	Value      *Pattern
	Attributes []*Attribute
	Comment    *Comment
}

// Junk holds source text that could not be parsed.
type Junk struct {
	Content string
	Line    int
}

func (*Comment) entry() {}
func (*Message) entry() {}
func (*Term) entry()    {}
func (*Junk) entry()    {}

// ---------------------------------------------------------------------------
// Patterns
// ---------------------------------------------------------------------------

// Pattern is the value of a message, term, attribute or variant.
type Pattern struct {
	Elements []Element
}

// Element is *Text or *Placeable.
type Element interface {
	element()
}

// Text is a literal run of text. Continuation lines are stored dedented,
// joined by "\n".
type Text struct {
	Value string
}

// Placeable wraps an expression inside braces.
type Placeable struct {
	Expression Expression
}

func (*Text) element()      {}
func (*Placeable) element() {}

// Expression is any expression allowed inside a placeable.
type Expression interface {
	expression()
}

// StringLiteral is a quoted string. Value is the raw (unescaped) source
// between the quotes.
type StringLiteral struct {
	Value string
}

// NumberLiteral keeps the number's source text.
type NumberLiteral struct {
	Value string
}

// MessageReference is { id } or { id.attr }.
type MessageReference struct {
	ID        string
	Attribute string
}

// TermReference is { -id }, { -id.attr } or { -id(args) }.
type TermReference struct {
	ID        string
	Attribute string
	Arguments *CallArguments
}

// VariableReference is { $id }.
type VariableReference struct {
	ID string
}

// FunctionReference is { NAME(args) }.
type FunctionReference struct {
	ID        string
	Arguments *CallArguments
}

// SelectExpression is { selector -> [key] value *[other] value }.
type SelectExpression struct {
	Selector Expression
	Variants []*Variant
}

// Variant is one branch of a select expression.
type Variant struct {
	Key     string
	Value   *Pattern
	Default bool
}

// CallArguments are the positional and named arguments of a call.
type CallArguments struct {
	Positional []Expression
	Named      []*NamedArgument
}

// NamedArgument is name: literal.
type NamedArgument struct {
	Name  string
	Value Expression
}

func (*StringLiteral) expression()     {}
func (*NumberLiteral) expression()     {}
func (*MessageReference) expression()  {}
func (*TermReference) expression()     {}
func (*VariableReference) expression() {}
func (*FunctionReference) expression() {}
func (*SelectExpression) expression()  {}
func (*Placeable) expression()         {}

// ---------------------------------------------------------------------------
// Resource
// ---------------------------------------------------------------------------

// Resource is a parsed .ftl file.
type Resource struct {
	Entries []Entry

	index map[string]*Message
}

// NewResource returns a resource holding entries in the given order.
func NewResource(entries ...Entry) *Resource {
	return &Resource{Entries: entries}
}

// FindMessage returns the message with the given id, or nil. A nil
// resource has no messages. If an id occurs twice the first one wins.
func (r *Resource) FindMessage(id string) *Message {
	if r == nil {
		return nil
	}
	if r.index == nil {
		r.index = make(map[string]*Message)
		for _, e := range r.Entries {
			if m, ok := e.(*Message); ok {
				if _, dup := r.index[m.ID]; !dup {
					r.index[m.ID] = m
				}
			}
		}
	}
	return r.index[id]
}

// Messages returns all messages in document order.
func (r *Resource) Messages() []*Message {
	if r == nil {
		return nil
	}
	var msgs []*Message
	for _, e := range r.Entries {
		if m, ok := e.(*Message); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}
