// Package change decides which messages of a source resource need machine
// translation, by comparing the source against the snapshot it had on the
// previous run and against the existing target resource.
package change

import "github.com/minios-linux/ftlsync/fluent"

// Verdict is the per-message outcome of Decide.
type Verdict int

const (
	NeedsTranslation Verdict = iota
	Skip
)

func (v Verdict) String() string {
	if v == Skip {
		return "skip"
	}
	return "translate"
}

// Reason explains which rule produced a verdict.
type Reason int

const (
	ReasonNew              Reason = iota // absent from the prior snapshot
	ReasonChanged                        // value differs from the prior snapshot
	ReasonUnchanged                      // value equals the prior snapshot
	ReasonMissingInTarget                // absent from the target
	ReasonHandTranslated                 // target comment carries the hand-translated tag
	ReasonUnconfirmed                    // target comment without the tag
)

func (r Reason) String() string {
	switch r {
	case ReasonNew:
		return "new message"
	case ReasonChanged:
		return "source changed"
	case ReasonUnchanged:
		return "source unchanged"
	case ReasonMissingInTarget:
		return "missing in target"
	case ReasonHandTranslated:
		return "hand-translated"
	case ReasonUnconfirmed:
		return "target comment without " + fluent.TagHandTranslated
	}
	return "unknown"
}

// Decision is the verdict for one source message.
type Decision struct {
	ID      string
	Verdict Verdict
	Reason  Reason
}

// Decide returns the verdict for source message src with the given id.
// prior and target may be nil, meaning no snapshot and no target file.
//
// Rules, in order of precedence:
//   - a message missing from target is always translated;
//   - a target comment tagged hand-translated always skips;
//   - a target comment without the tag always translates;
//   - otherwise the message is translated iff it is new or changed
//     relative to prior.
func Decide(id string, src *fluent.Message, prior, target *fluent.Resource) Verdict {
	v, _ := decide(id, src, prior, target)
	return v
}

func decide(id string, src *fluent.Message, prior, target *fluent.Resource) (Verdict, Reason) {
	diff, why := NeedsTranslation, ReasonNew
	if old := prior.FindMessage(id); old != nil {
		if src.Value.Equal(old.Value) {
			diff, why = Skip, ReasonUnchanged
		} else {
			why = ReasonChanged
		}
	}

	existing := target.FindMessage(id)
	if existing == nil {
		return NeedsTranslation, ReasonMissingInTarget
	}
	if c := existing.Comment; c != nil && c.Kind == fluent.CommentStandalone {
		if c.HasTag(fluent.TagHandTranslated) {
			return Skip, ReasonHandTranslated
		}
		return NeedsTranslation, ReasonUnconfirmed
	}
	return diff, why
}

// Plan decides every message of src in document order.
func Plan(src, prior, target *fluent.Resource) []Decision {
	msgs := src.Messages()
	plan := make([]Decision, 0, len(msgs))
	for _, m := range msgs {
		v, why := decide(m.ID, m, prior, target)
		plan = append(plan, Decision{ID: m.ID, Verdict: v, Reason: why})
	}
	return plan
}

// Pending returns the ids of the decisions that need translation.
func Pending(plan []Decision) []string {
	var ids []string
	for _, d := range plan {
		if d.Verdict == NeedsTranslation {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
