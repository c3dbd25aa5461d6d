package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minios-linux/ftlsync/change"
	"github.com/minios-linux/ftlsync/fluent"
)

// fakeService prefixes every text with "fr:" unless fn is set.
type fakeService struct {
	fn    func(text string) (string, error)
	names map[string]string
	calls []string
}

func (f *fakeService) Translate(_ context.Context, text string) (string, error) {
	f.calls = append(f.calls, text)
	if f.fn != nil {
		return f.fn(text)
	}
	return "fr:" + text, nil
}

func (f *fakeService) LanguageName(_ context.Context, code string) (string, error) {
	if name, ok := f.names[code]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no name for %s", code)
}

type logs struct {
	info   []string
	errors []string
}

func (l *logs) options(target string) Options {
	return Options{
		SourceLang: "en",
		TargetLang: target,
		OnLog:      func(format string, args ...any) { l.info = append(l.info, fmt.Sprintf(format, args...)) },
		OnError:    func(format string, args ...any) { l.errors = append(l.errors, fmt.Sprintf(format, args...)) },
	}
}

// project writes the given files into a temp dir and returns a task for
// fr.ftl. An empty content means the file is not created.
func project(t *testing.T, source, diff, target string) Task {
	t.Helper()
	dir := t.TempDir()
	task := Task{
		SourcePath: filepath.Join(dir, "en.ftl"),
		DiffPath:   filepath.Join(dir, "en.ftl.old"),
		OutPath:    filepath.Join(dir, "fr.ftl"),
	}
	for path, content := range map[string]string{
		task.SourcePath: source,
		task.DiffPath:   diff,
		task.OutPath:    target,
	} {
		if content == "" {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return task
}

func parseFile(t *testing.T, path string) *fluent.Resource {
	t.Helper()
	res, errs, err := fluent.ParseFile(path)
	if err != nil || len(errs) != 0 {
		t.Fatalf("ParseFile(%s): %v %v", path, err, errs)
	}
	return res
}

func readOut(t *testing.T, task Task) string {
	t.Helper()
	data, err := os.ReadFile(task.OutPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Sync
// ---------------------------------------------------------------------------

func TestSync_HandTranslatedIsKept(t *testing.T) {
	task := project(t,
		"greeting = Hello, { $name }!\n",
		"greeting = Hi, { $name }!\n",
		"# tt-hand-translated\ngreeting = Salut { $name }, fait main\n")
	svc := &fakeService{}
	var l logs

	sum, err := Sync(context.Background(), task, svc, l.options("fr"))
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service called for hand-translated message: %v", svc.calls)
	}
	want := "# tt-hand-translated\ngreeting = Salut { $name }, fait main\n\n"
	if got := readOut(t, task); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if sum.Translated != 0 || sum.Skipped != 1 || !sum.Written {
		t.Errorf("summary = %+v", sum)
	}
}

func TestSync_NewMessageWithPlaceholder(t *testing.T) {
	task := project(t, "greeting = Hello, { $name }!\n", "", "")
	svc := &fakeService{fn: func(string) (string, error) { return "Bonjour, ___!", nil }}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(svc.calls) != 1 || svc.calls[0] != "Hello, ___!" {
		t.Errorf("service calls = %q, want [\"Hello, ___!\"]", svc.calls)
	}
	want := "greeting = Bonjour, { $name }!\n\n"
	if got := readOut(t, task); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSync_UnchangedWithoutCommentIsSkipped(t *testing.T) {
	task := project(t,
		"greeting = Hello\n",
		"greeting = Hello\n",
		"greeting = Bonjour\n")
	svc := &fakeService{}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service calls = %q, want none", svc.calls)
	}
	if got := readOut(t, task); got != "greeting = Bonjour\n\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSync_UntaggedCommentForcesTranslation(t *testing.T) {
	task := project(t,
		"greeting = Hello\n",
		"greeting = Hello\n",
		"# machine translated, please review\ngreeting = Bonjour\n")
	svc := &fakeService{}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if got := readOut(t, task); got != "greeting = fr:Hello\n\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSync_IsIdempotent(t *testing.T) {
	source := "# Window title\ntitle = Settings\n\ncount = { $n } items\nlogin =\n    .placeholder = Email\n"
	task := project(t, source, "", "")
	svc := &fakeService{}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("first Sync() error: %v", err)
	}
	first := readOut(t, task)
	if err := os.WriteFile(task.DiffPath, []byte(source), 0644); err != nil {
		t.Fatal(err)
	}

	svc.calls = nil
	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("second Sync() error: %v", err)
	}
	if len(svc.calls) != 0 {
		t.Errorf("second run called the service: %q", svc.calls)
	}
	if second := readOut(t, task); second != first {
		t.Errorf("output changed:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestSync_FollowsSourceOrder(t *testing.T) {
	task := project(t,
		"a = A\nb = B\nc = C\n",
		"a = A\nb = B\nc = C\n",
		"c = Cé\nobsolete = Gone\na = Aé\n")
	svc := &fakeService{}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	want := "a = Aé\n\nb = fr:B\n\nc = Cé\n\n"
	if got := readOut(t, task); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestSync_ServiceErrorFallsBackToSource(t *testing.T) {
	task := project(t, "greeting = Hello, { $name }!\nbye = Bye\n", "", "")
	svc := &fakeService{fn: func(text string) (string, error) {
		if text == "Bye" {
			return "Au revoir", nil
		}
		return "", errors.New("quota exceeded")
	}}
	var l logs

	sum, err := Sync(context.Background(), task, svc, l.options("fr"))
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	want := "greeting = Hello, { $name }!\n\nbye = Au revoir\n\n"
	if got := readOut(t, task); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if sum.Fallbacks != 1 {
		t.Errorf("Fallbacks = %d, want 1", sum.Fallbacks)
	}
	if len(l.errors) != 1 || !strings.Contains(l.errors[0], "quota exceeded") {
		t.Errorf("errors = %q", l.errors)
	}
}

func TestSync_SyntaxAtLineStartStaysInValue(t *testing.T) {
	task := project(t, "intro =\n    First\n    Second\n    Third\n", "", "")
	svc := &fakeService{fn: func(string) (string, error) {
		return "L1 &amp; x\n[oops] L2\n.attr L3", nil
	}}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	res := parseFile(t, task.OutPath)
	msg := res.FindMessage("intro")
	if msg == nil {
		t.Fatalf("intro missing from %q", readOut(t, task))
	}
	want := "L1 & x\n{ \"[\" }oops] L2\n{ \".\" }attr L3"
	if got := msg.Value.String(); got != want {
		t.Errorf("intro = %q, want %q", got, want)
	}
	if len(msg.Attributes) != 0 {
		t.Errorf("translated text parsed as attributes: %v", msg.Attributes)
	}
}

func TestSync_DryRunWritesNothing(t *testing.T) {
	task := project(t, "a = A\nb = B\n", "a = A\n", "a = Aé\nb = Bé\n")
	svc := &fakeService{}
	var l logs
	opts := l.options("fr")
	opts.DryRun = true

	sum, err := Sync(context.Background(), task, svc, opts)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(svc.calls) != 0 || sum.Written {
		t.Errorf("dry run translated or wrote: calls=%q written=%v", svc.calls, sum.Written)
	}
	if sum.Translated != 1 || sum.Skipped != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Plan[1].ID != "b" || sum.Plan[1].Reason != change.ReasonNew {
		t.Errorf("plan = %+v", sum.Plan)
	}
	if got := readOut(t, task); got != "a = Aé\nb = Bé\n" {
		t.Errorf("target modified by dry run: %q", got)
	}
}

func TestSync_MissingSourceIsFatal(t *testing.T) {
	task := project(t, "", "", "a = Aé\n")
	var l logs

	if _, err := Sync(context.Background(), task, &fakeService{}, l.options("fr")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if got := readOut(t, task); got != "a = Aé\n" {
		t.Errorf("target modified: %q", got)
	}
}

func TestSync_UnreadableTargetIsFatal(t *testing.T) {
	task := project(t, "a = A\n", "", "")
	if err := os.Mkdir(task.OutPath, 0755); err != nil {
		t.Fatal(err)
	}
	var l logs

	if _, err := Sync(context.Background(), task, &fakeService{}, l.options("fr")); err == nil {
		t.Fatal("expected error when the target cannot be read")
	}
}

func TestSync_ParseErrorsAreReported(t *testing.T) {
	task := project(t, "a = A\n", "a = A\n", "a = Aé\n!!! broken\n")
	var l logs

	sum, err := Sync(context.Background(), task, &fakeService{}, l.options("fr"))
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if sum.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", sum.ParseErrors)
	}
	if len(l.errors) != 1 || !strings.HasPrefix(l.errors[0], task.OutPath+": line 2") {
		t.Errorf("errors = %q", l.errors)
	}
	if got := readOut(t, task); got != "a = Aé\n\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSync_CancelledLeavesTargetAlone(t *testing.T) {
	task := project(t, "a = A\n", "", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var l logs

	_, err := Sync(ctx, task, &fakeService{}, l.options("fr"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Sync() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(task.OutPath); !os.IsNotExist(err) {
		t.Errorf("target written after cancel, stat err=%v", err)
	}
}

func TestSaveSnapshotMakesNextRunIncremental(t *testing.T) {
	task := project(t, "a = A\nb = B\n", "", "")
	svc := &fakeService{}
	var l logs

	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatal(err)
	}
	if err := SaveSnapshot(task.SourcePath, task.DiffPath); err != nil {
		t.Fatalf("SaveSnapshot() error: %v", err)
	}
	if err := os.WriteFile(task.SourcePath, []byte("a = A\nb = B changed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	svc.calls = nil
	if _, err := Sync(context.Background(), task, svc, l.options("fr")); err != nil {
		t.Fatal(err)
	}
	if len(svc.calls) != 1 || svc.calls[0] != "B changed" {
		t.Errorf("service calls = %q, want only the changed message", svc.calls)
	}
	if got := readOut(t, task); got != "a = fr:A\n\nb = fr:B changed\n\n" {
		t.Errorf("output = %q", got)
	}
}

func TestSaveSnapshotMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := SaveSnapshot(filepath.Join(dir, "nope.ftl"), filepath.Join(dir, "old.ftl")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

// ---------------------------------------------------------------------------
// Translate
// ---------------------------------------------------------------------------

func translateOne(t *testing.T, source string, svc Service, opts Options) Result {
	t.Helper()
	task := project(t, source, "", "")
	sum, err := Sync(context.Background(), task, svc, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	src := parseFile(t, task.SourcePath)
	results, err := Translate(context.Background(), src, sum.Plan, svc, opts)
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	return results[0]
}

func TestTranslate_LanguageName(t *testing.T) {
	var l logs
	svc := &fakeService{names: map[string]string{"fr": "Français"}}

	r := translateOne(t, "# tt-lang-name\nlanguage-name = English\n", svc, l.options("fr"))
	if r.Text != "Français" || r.Fallback {
		t.Errorf("result = %+v", r)
	}
	if len(svc.calls) != 0 {
		t.Errorf("language name sent to Translate: %q", svc.calls)
	}

	r = translateOne(t, "# tt-lang-name\nlanguage-name = English\n", svc, l.options("de"))
	if r.Text != LanguageNamePlaceholder || !r.Fallback {
		t.Errorf("fallback result = %+v", r)
	}
}

func TestTranslate_SameLanguageSkipsService(t *testing.T) {
	var l logs
	svc := &fakeService{}
	r := translateOne(t, "greeting = Hello, { $name }!\n", svc, l.options("EN"))
	if r.Text != "Hello, { $name }!" {
		t.Errorf("Text = %q", r.Text)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service called: %q", svc.calls)
	}
}

func TestTranslate_MultilineIsIndented(t *testing.T) {
	var l logs
	r := translateOne(t, "intro =\n    First line\n    Second line\n", &fakeService{}, l.options("fr"))
	if want := "fr:First line\n    Second line"; r.Text != want {
		t.Errorf("Text = %q, want %q", r.Text, want)
	}
}

func TestTranslate_LostPlaceholders(t *testing.T) {
	var l logs
	svc := &fakeService{fn: func(string) (string, error) { return "Bonjour !", nil }}
	r := translateOne(t, "greeting = Hello, { $name }!\n", svc, l.options("fr"))
	if r.Text != "Bonjour !" || r.Missing != 1 {
		t.Errorf("result = %+v", r)
	}
	if len(l.errors) != 1 {
		t.Errorf("errors = %q, want one warning", l.errors)
	}
}

func TestTranslate_NoValue(t *testing.T) {
	var l logs
	svc := &fakeService{}
	r := translateOne(t, "login =\n    .placeholder = Email\n", svc, l.options("fr"))
	if r.HasValue || r.Text != "" {
		t.Errorf("result = %+v", r)
	}
	if len(svc.calls) != 0 {
		t.Errorf("service called: %q", svc.calls)
	}
}

func TestTranslate_Progress(t *testing.T) {
	var l logs
	opts := l.options("fr")
	var seen []string
	opts.OnProgress = func(id string, done, total int) {
		seen = append(seen, fmt.Sprintf("%s %d/%d", id, done, total))
	}
	task := project(t, "a = A\nb = B\n", "", "")
	src := parseFile(t, task.SourcePath)
	plan := []change.Decision{
		{ID: "a", Verdict: change.NeedsTranslation},
		{ID: "b", Verdict: change.NeedsTranslation},
	}
	if _, err := Translate(context.Background(), src, plan, &fakeService{}, opts); err != nil {
		t.Fatal(err)
	}
	if strings.Join(seen, ",") != "a 1/2,b 2/2" {
		t.Errorf("progress = %q", seen)
	}
}

// ---------------------------------------------------------------------------
// Clean
// ---------------------------------------------------------------------------

func TestClean(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"l&#39;ami", "l'ami"},
		{"&quot;quoted&quot;", `"quoted"`},
		{"100Â %", "100 %"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
