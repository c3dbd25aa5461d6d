// Package merge builds the target Fluent resource from the source resource,
// fresh translations and the previous target file.
package merge

import (
	"fmt"
	"io"

	"github.com/minios-linux/ftlsync/fluent"
)

// Translation is the machine translation result for one message.
// HasValue is false when the source message has no value to translate;
// such messages are written as "id = ".
type Translation struct {
	Text     string
	HasValue bool
}

// Translations maps message ids to their new translations. Messages
// without an entry keep their target (or source) text.
type Translations map[string]Translation

// Write emits the merged resource to w. Entries follow the source order:
//   - terms are copied from the source with their comment;
//   - translated messages are written without a comment;
//   - untranslated messages are copied from target if present, else from
//     source, comment included;
//   - top-level comments are copied and followed by a blank line.
//
// Junk and attributes are not written.
func Write(w io.Writer, src, target *fluent.Resource, tr Translations) error {
	for _, e := range src.Entries {
		if err := writeEntry(w, e, target, tr); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w io.Writer, e fluent.Entry, target *fluent.Resource, tr Translations) error {
	switch e := e.(type) {
	case *fluent.Term:
		if err := fluent.WriteComment(w, e.Comment); err != nil {
			return err
		}
		if err := fluent.WriteValue(w, "-"+e.ID, e.Value); err != nil {
			return err
		}

	case *fluent.Message:
		if t, ok := tr[e.ID]; ok {
			text := ""
			if t.HasValue {
				text = t.Text
			}
			if _, err := io.WriteString(w, e.ID+" = "+text); err != nil {
				return err
			}
			break
		}
		// Keep whatever the target has, hand-translated or not.
		m := e
		if existing := target.FindMessage(e.ID); existing != nil {
			m = existing
		}
		if err := fluent.WriteComment(w, m.Comment); err != nil {
			return err
		}
		if err := fluent.WriteValue(w, e.ID, m.Value); err != nil {
			return err
		}

	case *fluent.Comment:
		if err := fluent.WriteComment(w, e); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err

	default:
		return nil
	}

	_, err := io.WriteString(w, "\n\n")
	return err
}

// WriteFile writes the merged resource to path, replacing it atomically.
func WriteFile(path string, src, target *fluent.Resource, tr Translations) error {
	return fluent.WriteFileAtomic(path, func(w io.Writer) error {
		if err := Write(w, src, target, tr); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	})
}
