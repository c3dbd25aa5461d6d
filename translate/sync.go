package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/minios-linux/ftlsync/change"
	"github.com/minios-linux/ftlsync/fluent"
	"github.com/minios-linux/ftlsync/merge"
)

// Task describes one source resource synchronized into one locale.
type Task struct {
	// Name labels the resource in logs.
	Name string
	// SourcePath is the source-language .ftl file.
	SourcePath string
	// DiffPath is the snapshot of the source from the previous run.
	// Empty, or a missing file, means every message counts as new.
	DiffPath string
	// OutPath is the target .ftl file; it is read first and then replaced.
	OutPath string
}

// Summary reports what Sync did for one task.
type Summary struct {
	Locale      string
	OutPath     string
	Total       int // messages in the source
	Translated  int
	Skipped     int
	Fallbacks   int // translated messages that kept their source text
	ParseErrors int
	Plan        []change.Decision
	Written     bool
}

// Sync brings task.OutPath up to date with task.SourcePath.
//
// A missing diff or target file is treated as empty. Any other read error
// stops the task, so existing hand translations are never overwritten on
// the basis of an unreadable file. Parse errors are logged and the
// recovered entries are used. If ctx is cancelled the target file is left
// untouched.
func Sync(ctx context.Context, task Task, svc Service, opts Options) (*Summary, error) {
	sum := &Summary{Locale: opts.TargetLang, OutPath: task.OutPath}

	src, n, err := readResource(task.SourcePath, false, &opts)
	if err != nil {
		return nil, err
	}
	sum.ParseErrors += n

	prior, n, err := readResource(task.DiffPath, true, &opts)
	if err != nil {
		return nil, err
	}
	sum.ParseErrors += n

	target, n, err := readResource(task.OutPath, true, &opts)
	if err != nil {
		return nil, err
	}
	sum.ParseErrors += n

	sum.Plan = change.Plan(src, prior, target)
	sum.Total = len(sum.Plan)
	for _, d := range sum.Plan {
		if d.Verdict == change.NeedsTranslation {
			sum.Translated++
		} else {
			sum.Skipped++
		}
		opts.debug("  %-9s %s (%s)", d.Verdict, d.ID, d.Reason)
	}

	label := task.OutPath
	if task.Name != "" {
		label = task.Name + ": " + task.OutPath
	}
	opts.log("Translating %s: %d to translate, %d to keep", label, sum.Translated, sum.Skipped)

	if opts.DryRun {
		return sum, nil
	}

	results, err := Translate(ctx, src, sum.Plan, svc, opts)
	if err != nil {
		return sum, err
	}

	tr := make(merge.Translations, len(results))
	for _, r := range results {
		if r.Fallback {
			sum.Fallbacks++
		}
		tr[r.ID] = merge.Translation{Text: r.Text, HasValue: r.HasValue}
	}

	if err := merge.WriteFile(task.OutPath, src, target, tr); err != nil {
		return sum, err
	}
	sum.Written = true
	opts.log("Saved %s (%d translated, %d kept)", task.OutPath, sum.Translated, sum.Skipped)
	return sum, nil
}

// readResource parses path, logging its syntax errors. With optional set,
// an empty path or a missing file yields a nil resource.
func readResource(path string, optional bool, opts *Options) (*fluent.Resource, int, error) {
	if path == "" && optional {
		return nil, 0, nil
	}
	res, errs, err := fluent.ParseFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			opts.debug("  %s does not exist, treating it as empty", path)
			return nil, 0, nil
		}
		return nil, 0, err
	}
	for _, e := range errs {
		opts.logError("%s: %v", path, e)
	}
	return res, len(errs), nil
}

// SaveSnapshot copies the source file to diffPath so the next run only
// translates what changes from now on. The copy replaces diffPath
// atomically.
func SaveSnapshot(sourcePath, diffPath string) error {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}
	return fluent.WriteFileAtomic(diffPath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
