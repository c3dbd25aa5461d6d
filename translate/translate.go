// Package translate drives machine translation of Fluent messages.
//
// For every message the change planner marks for translation, the message
// value is stripped of its placeables, sent to a Service, cleaned up and
// given its placeables back. Failures of a single message never stop the
// run: the message falls back to its source text and a warning is logged.
package translate

import (
	"context"
	"html"
	"strings"

	"golang.org/x/text/language"

	"github.com/minios-linux/ftlsync/change"
	"github.com/minios-linux/ftlsync/fluent"
	"github.com/minios-linux/ftlsync/placeholder"
)

// LanguageNamePlaceholder is written for language-name messages when the
// service cannot tell the name of the target language.
const LanguageNamePlaceholder = "<INSERT LANGUAGE NAME HERE>"

// Service is a machine translation backend for one target language.
type Service interface {
	// Translate translates HTML text into the target language.
	Translate(ctx context.Context, text string) (string, error)
	// LanguageName returns the display name of a language code.
	LanguageName(ctx context.Context, code string) (string, error)
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls a translation run.
type Options struct {
	// SourceLang is the language of the source resource (e.g., "en").
	SourceLang string
	// TargetLang is the language being produced (e.g., "fr").
	TargetLang string
	// DryRun reports the plan without calling the service or writing files.
	DryRun bool
	// OnProgress is called after each message is processed.
	OnProgress func(id string, done, total int)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// OnError emits warnings and recoverable errors.
	OnError func(format string, args ...any)
	// Verbose enables detailed logging.
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) debug(format string, args ...any) {
	if o.Verbose {
		o.log(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// sameLanguage reports whether source and target are the same language tag.
func (o *Options) sameLanguage() bool {
	src, err1 := language.Parse(o.SourceLang)
	dst, err2 := language.Parse(o.TargetLang)
	if err1 != nil || err2 != nil {
		return strings.EqualFold(o.SourceLang, o.TargetLang)
	}
	return src == dst
}

// ---------------------------------------------------------------------------
// Translation
// ---------------------------------------------------------------------------

// Result is the outcome for one message.
type Result struct {
	ID string
	// Text is ready to be written after "id = ": continuation lines are
	// already indented.
	Text string
	// HasValue is false for messages without a value; Text is then empty.
	HasValue bool
	// Fallback is set when Text is not a machine translation: the service
	// failed and the source text (or the language-name placeholder) is used.
	Fallback bool
	// Missing counts placeholders dropped because the translation lost
	// their sentinels.
	Missing int
}

// Translate processes every message of plan whose verdict is
// NeedsTranslation, in plan order, one service call at a time.
// It only fails when ctx is cancelled; results gathered so far are
// returned together with the context error.
func Translate(ctx context.Context, src *fluent.Resource, plan []change.Decision, svc Service, opts Options) ([]Result, error) {
	pending := change.Pending(plan)
	total := len(pending)
	results := make([]Result, 0, total)

	for i, id := range pending {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		msg := src.FindMessage(id)
		if msg == nil {
			continue
		}
		r := translateMessage(ctx, msg, svc, &opts)
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r)

		if opts.OnProgress != nil {
			opts.OnProgress(id, i+1, total)
		}
	}
	return results, nil
}

func translateMessage(ctx context.Context, msg *fluent.Message, svc Service, opts *Options) Result {
	r := Result{ID: msg.ID, HasValue: true}

	// The value of a language-name message is the target language's name.
	if msg.Comment.HasTag(fluent.TagLangName) {
		name, err := svc.LanguageName(ctx, opts.TargetLang)
		if err != nil || name == "" {
			opts.logError("Cannot get the name of %s for %s: %v", opts.TargetLang, msg.ID, err)
			name = LanguageNamePlaceholder
			r.Fallback = true
		}
		r.Text = name
		return r
	}

	if msg.Value == nil {
		opts.debug("  %s has no value", msg.ID)
		return Result{ID: msg.ID}
	}

	unit := placeholder.Strip(msg.Value)
	var text string
	switch {
	case opts.sameLanguage():
		text = unit.Source()
	default:
		out, err := svc.Translate(ctx, unit.Text())
		if err != nil {
			if ctx.Err() == nil {
				opts.logError("Translation of %s failed, keeping source text: %v", msg.ID, err)
			}
			text = unit.Source()
			r.Fallback = true
			break
		}
		out = Clean(out)
		text = placeholder.Reinsert(out, unit.Placeholders)
		if r.Missing = placeholder.Missing(out, unit.Placeholders); r.Missing > 0 {
			opts.logError("Translation of %s lost %d of %d placeholders", msg.ID, r.Missing, len(unit.Placeholders))
		}
	}

	opts.debug("  %s: %q -> %q", msg.ID, unit.Text(), text)
	r.Text = fluent.Indent(fluent.EscapeLineStarts(text))
	return r
}

// Clean undoes the escaping done by an HTML-mode translation: entities are
// decoded and the mojibake "Â " left by non-breaking spaces becomes a space.
func Clean(s string) string {
	s = html.UnescapeString(s)
	return strings.ReplaceAll(s, "Â ", " ")
}
