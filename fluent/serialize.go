package fluent

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// indentWidth is the indentation of continuation lines in written patterns.
const indentWidth = 4

var indentation = strings.Repeat(" ", indentWidth)

// Indent prefixes every non-empty continuation line of s with the
// indentation required for multiline patterns. The first line is left as is.
func Indent(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indentation + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// lineStartSyntax holds the characters a continuation line of a pattern
// cannot start with.
const lineStartSyntax = ".[*}"

// EscapeLineStarts wraps a syntax character opening a continuation line of
// s in a string literal placeable, so text such as ".5" or "[note]" on a
// line of its own stays part of the value. Leading spaces are kept.
func EscapeLineStarts(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		rest := strings.TrimLeft(lines[i], " ")
		if rest == "" || !strings.ContainsRune(lineStartSyntax, rune(rest[0])) {
			continue
		}
		lead := lines[i][:len(lines[i])-len(rest)]
		lines[i] = lead + `{ "` + rest[:1] + `" }` + rest[1:]
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Patterns and expressions
// ---------------------------------------------------------------------------

// String renders the pattern in canonical form. Continuation lines are not
// indented; use Indent when writing the pattern under an entry.
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *Text:
			sb.WriteString(el.Value)
		case *Placeable:
			sb.WriteString(FormatPlaceable(el))
		}
	}
	return sb.String()
}

// Equal reports whether two patterns have the same canonical form.
// Two nil patterns are equal; nil never equals a non-nil pattern.
func (p *Pattern) Equal(other *Pattern) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}
	return p.String() == other.String()
}

// FormatPlaceable renders a placeable including its braces.
func FormatPlaceable(pl *Placeable) string {
	if sel, ok := pl.Expression.(*SelectExpression); ok {
		return formatSelect(sel)
	}
	return "{ " + FormatExpression(pl.Expression) + " }"
}

// FormatExpression renders an inline expression without surrounding braces.
func FormatExpression(e Expression) string {
	switch e := e.(type) {
	case *StringLiteral:
		return `"` + e.Value + `"`
	case *NumberLiteral:
		return e.Value
	case *MessageReference:
		if e.Attribute != "" {
			return e.ID + "." + e.Attribute
		}
		return e.ID
	case *TermReference:
		s := "-" + e.ID
		if e.Attribute != "" {
			s += "." + e.Attribute
		}
		if e.Arguments != nil {
			s += formatArguments(e.Arguments)
		}
		return s
	case *VariableReference:
		return "$" + e.ID
	case *FunctionReference:
		return e.ID + formatArguments(e.Arguments)
	case *Placeable:
		return FormatPlaceable(e)
	case *SelectExpression:
		s := formatSelect(e)
		return s[len("{ ") : len(s)-len("}")]
	}
	return ""
}

func formatArguments(args *CallArguments) string {
	if args == nil {
		return "()"
	}
	parts := make([]string, 0, len(args.Positional)+len(args.Named))
	for _, p := range args.Positional {
		parts = append(parts, FormatExpression(p))
	}
	for _, n := range args.Named {
		parts = append(parts, n.Name+": "+FormatExpression(n.Value))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatSelect(sel *SelectExpression) string {
	var sb strings.Builder
	sb.WriteString("{ ")
	sb.WriteString(FormatExpression(sel.Selector))
	sb.WriteString(" ->")
	for _, v := range sel.Variants {
		sb.WriteString("\n")
		if v.Default {
			sb.WriteString(indentation[1:] + "*")
		} else {
			sb.WriteString(indentation)
		}
		sb.WriteString("[" + v.Key + "] ")
		sb.WriteString(Indent(Indent(v.Value.String())))
	}
	sb.WriteString("\n}")
	return sb.String()
}

// ---------------------------------------------------------------------------
// Entries
// ---------------------------------------------------------------------------

// WriteComment writes each comment line prefixed by the comment's sigil.
// A nil comment writes nothing.
func WriteComment(w io.Writer, c *Comment) error {
	if c == nil {
		return nil
	}
	prefix := c.Kind.Prefix()
	for _, l := range c.Lines {
		var err error
		if l == "" {
			_, err = fmt.Fprintln(w, prefix)
		} else {
			_, err = fmt.Fprintf(w, "%s %s\n", prefix, l)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteValue writes "id = value" without a trailing newline. A nil value
// writes "id = ".
func WriteValue(w io.Writer, id string, value *Pattern) error {
	_, err := io.WriteString(w, id+" = "+Indent(value.String()))
	return err
}

// WriteFileAtomic writes data produced by fn to path through a temporary
// file in the same directory, creating the directory with 0755 if needed.
// The target is only replaced when fn and the flush succeed.
func WriteFileAtomic(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
