// Package placeholder turns Fluent patterns into plain text that a machine
// translation service can handle, and puts the placeables back afterwards.
//
// Every placeable becomes one placeholder. In the text sent to the service a
// placeholder is written as the sentinel "___"; its rendering is kept aside
// and substituted for the sentinels of the translated text, left to right.
package placeholder

import (
	"strings"

	"github.com/minios-linux/ftlsync/fluent"
)

// Sentinel marks a placeholder in text sent for translation.
const Sentinel = "___"

// Opaque is the stored rendering of placeables that cannot be rebuilt from
// their parts: function references, select expressions and nested placeables.
const Opaque = Sentinel

// Segment is one piece of a stripped pattern: literal text, or a reference
// to a placeholder by index.
type Segment struct {
	Text        string
	Placeholder int // index into Unit.Placeholders; -1 for text
}

// IsPlaceholder reports whether the segment refers to a placeholder.
func (s Segment) IsPlaceholder() bool { return s.Placeholder >= 0 }

// Unit is a pattern with its placeables taken out.
type Unit struct {
	Segments     []Segment
	Placeholders []string
}

// Strip converts a pattern into a Unit. A nil pattern yields an empty unit.
func Strip(p *fluent.Pattern) Unit {
	var u Unit
	if p == nil {
		return u
	}
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *fluent.Text:
			u.appendText(el.Value)
		case *fluent.Placeable:
			u.Segments = append(u.Segments, Segment{Placeholder: len(u.Placeholders)})
			u.Placeholders = append(u.Placeholders, Render(el))
		}
	}
	return u
}

func (u *Unit) appendText(s string) {
	if n := len(u.Segments); n > 0 && !u.Segments[n-1].IsPlaceholder() {
		u.Segments[n-1].Text += s
		return
	}
	u.Segments = append(u.Segments, Segment{Text: s, Placeholder: -1})
}

// Render returns the text that replaces the sentinel of pl on reinsertion.
func Render(pl *fluent.Placeable) string {
	switch e := pl.Expression.(type) {
	case *fluent.StringLiteral, *fluent.NumberLiteral,
		*fluent.MessageReference, *fluent.TermReference, *fluent.VariableReference:
		return "{ " + fluent.FormatExpression(e) + " }"
	default:
		return Opaque
	}
}

// Text renders the unit for the translation service, with every
// placeholder written as Sentinel.
func (u Unit) Text() string {
	var sb strings.Builder
	for _, s := range u.Segments {
		if s.IsPlaceholder() {
			sb.WriteString(Sentinel)
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Source returns the untranslated text with its placeholders restored.
// It is what gets written when translation fails.
func (u Unit) Source() string {
	var sb strings.Builder
	for _, s := range u.Segments {
		if s.IsPlaceholder() {
			sb.WriteString(u.Placeholders[s.Placeholder])
		} else {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Reinsert replaces the sentinels in translated with placeholders, one per
// placeholder, in order. Placeholders left without a sentinel are dropped;
// surplus sentinels stay in the text.
func Reinsert(translated string, placeholders []string) string {
	s, _ := reinsert(translated, placeholders)
	return s
}

// Missing returns how many placeholders Reinsert would drop because
// translated has too few sentinels.
func Missing(translated string, placeholders []string) int {
	_, n := reinsert(translated, placeholders)
	return n
}

func reinsert(translated string, placeholders []string) (string, int) {
	var sb strings.Builder
	rest := translated
	for i, ph := range placeholders {
		idx := strings.Index(rest, Sentinel)
		if idx < 0 {
			sb.WriteString(rest)
			return sb.String(), len(placeholders) - i
		}
		sb.WriteString(rest[:idx])
		sb.WriteString(ph)
		rest = rest[idx+len(Sentinel):]
	}
	sb.WriteString(rest)
	return sb.String(), 0
}
