// ftlsync keeps Fluent (.ftl) translations in sync with their source file
// using Google Cloud Translation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/ftlsync/auth"
	"github.com/minios-linux/ftlsync/change"
	"github.com/minios-linux/ftlsync/cloudtranslate"
	"github.com/minios-linux/ftlsync/config"
	"github.com/minios-linux/ftlsync/i18n"
	"github.com/minios-linux/ftlsync/settings"
	"github.com/minios-linux/ftlsync/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// envEndpoint overrides the Cloud Translation endpoint.
const envEndpoint = "FTLSYNC_ENDPOINT"

var (
	infoTag    = color.New(color.FgBlue).SprintFunc()
	successTag = color.New(color.FgGreen).SprintFunc()
	warningTag = color.New(color.FgYellow, color.Bold).SprintFunc()
	errorTag   = color.New(color.FgRed).SprintFunc()
	debugTag   = color.New(color.FgHiBlack).SprintFunc()
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, infoTag("[INFO]")+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, successTag("[OK]")+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, warningTag("[WARN]")+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, errorTag("[ERROR]")+" "+format+"\n", args...)
}

func logDebug(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, debugTag("[DEBUG]")+" "+format+"\n", args...)
	}
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	configPath      string
	credentialsFlag string
	locationFlag    string
	timeoutFlag     time.Duration
	verbose         bool
)

// ---------------------------------------------------------------------------
// Root command (sync)
// ---------------------------------------------------------------------------

type syncArgs struct {
	from       string
	diff       string
	locales    []string
	outPath    string
	glossary   string
	ignoreCase bool
	sourceLang string
	dryRun     bool
	noProgress bool
	updateDiff bool
}

func newRootCmd() *cobra.Command {
	var a syncArgs

	root := &cobra.Command{
		Use:   "ftlsync",
		Short: i18n.T("Incrementally translate Fluent (.ftl) files with Google Cloud Translation"),
		Long: i18n.T(`ftlsync translates the messages of a source Fluent file into one or more
target locales with Google Cloud Translation v3.

Only messages that are new, changed since the previous source snapshot
(--diff), missing from the target, or marked for review are sent to the
API. Messages whose target comment contains "tt-hand-translated" are never
touched. A message commented "tt-lang-name" receives the name of the
target language.

Examples:
  ftlsync -l fr                          Translate en.ftl into ./fr.ftl
  ftlsync -f en.ftl -d en.ftl.old -l fr,de -o locales
  ftlsync --dry-run -l fr                Show what would be translated
  ftlsync languages                      List supported target locales
  ftlsync auth login key.json            Remember a service-account key`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Flags(), a)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", fmt.Sprintf(i18n.T("Project file (default: ./%s if present)"), config.FileName))
	pf.StringVarP(&credentialsFlag, "credentials", "c", "", i18n.T("Service-account key file"))
	pf.StringVar(&locationFlag, "location", "", i18n.T("Cloud Translation location (default: us-central1)"))
	pf.DurationVar(&timeoutFlag, "timeout", 0, i18n.T("Timeout of each API request (default: 30s)"))
	pf.BoolVarP(&verbose, "verbose", "v", false, i18n.T("Verbose output"))

	addSyncFlags(root.Flags(), &a)

	root.AddCommand(
		newLanguagesCmd(),
		newCompletionsCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func addSyncFlags(f *pflag.FlagSet, a *syncArgs) {
	f.StringVarP(&a.from, "from", "f", "en.ftl", i18n.T("Source .ftl file"))
	f.StringVarP(&a.diff, "diff", "d", "", i18n.T("Snapshot of the source file from the previous run"))
	f.StringSliceVarP(&a.locales, "locale", "l", nil, i18n.T("Target locales (repeatable or comma separated)"))
	f.StringVarP(&a.outPath, "outpath", "o", ".", i18n.T("Directory of the <locale>.ftl files"))
	f.StringVarP(&a.glossary, "glossary", "g", "", i18n.T("Glossary id or full resource name"))
	f.BoolVar(&a.ignoreCase, "ignore-case", false, i18n.T("Match glossary terms case-insensitively"))
	f.StringVar(&a.sourceLang, "source-lang", "en", i18n.T("Language of the source file"))
	f.BoolVar(&a.dryRun, "dry-run", false, i18n.T("Show the translation plan without calling the API or writing files"))
	f.BoolVar(&a.noProgress, "no-progress", false, i18n.T("Disable the progress bar"))
	f.BoolVar(&a.updateDiff, "update-diff", false, i18n.T("Copy the source file over the --diff snapshot after a successful run"))
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

func runSync(flags *pflag.FlagSet, a syncArgs) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sourceLang := cfg.SourceLang
	if flags.Changed("source-lang") {
		sourceLang = a.sourceLang
	}
	resources, err := resolveResources(flags, cfg, a, sourceLang)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	cs := clientSettings{
		location:   firstNonEmpty(locationFlag, cfg.Location),
		timeout:    cfg.Timeout,
		sourceLang: sourceLang,
		ignoreCase: cfg.Glossary.IgnoreCase || a.ignoreCase,
	}
	if timeoutFlag > 0 {
		cs.timeout = timeoutFlag
	}

	// A dry run never talks to the API, so it needs no credentials.
	if !a.dryRun {
		creds, token, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		cs.projectID = creds.ProjectID()
		cs.token = token

		if err := validateLocales(ctx, cs, resources); err != nil {
			return err
		}
	}

	// Messages that kept their source text because the API failed must be
	// retried next run, so their resource's snapshot is left alone.
	fallbacks := make([]int, len(resources))
	written := 0
	for i, r := range resources {
		for _, locale := range r.Locales {
			task := translate.Task{
				Name:       r.Name,
				SourcePath: r.Source,
				DiffPath:   r.Diff,
				OutPath:    r.TargetPath(locale),
			}
			var svc translate.Service
			if !a.dryRun {
				svc = cs.client(locale, r.Glossary)
			}

			opts, done := syncOptions(sourceLang, locale, a)
			sum, err := translate.Sync(ctx, task, svc, opts)
			done()
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return errors.New(i18n.T("interrupted, the current file was not written"))
				}
				return fmt.Errorf("%s: %w", task.OutPath, err)
			}
			reportSummary(sum, a.dryRun)
			fallbacks[i] += sum.Fallbacks
			if sum.Written {
				written++
			}
		}
	}

	if a.dryRun {
		return nil
	}
	if a.updateDiff {
		for i, r := range resources {
			if r.Diff == "" {
				logWarning(i18n.T("%s has no --diff snapshot to update"), r.Name)
				continue
			}
			if fallbacks[i] > 0 {
				logWarning(i18n.N("%s: %d message kept its source text, %s not updated",
					"%s: %d messages kept their source text, %s not updated", fallbacks[i]),
					r.Name, fallbacks[i], r.Diff)
				continue
			}
			if err := translate.SaveSnapshot(r.Source, r.Diff); err != nil {
				return err
			}
			logDebug("Updated snapshot %s", r.Diff)
		}
	}
	logSuccess(i18n.N("Done: %d file updated", "Done: %d files updated", written), written)
	return nil
}

// loadConfig reads --config, or .ftlsync.yaml in the working directory,
// falling back to built-in defaults.
func loadConfig() (*config.File, error) {
	if configPath != "" {
		return config.LoadPath(configPath)
	}
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return config.Default(), nil
	}
	logDebug("Using %s", config.FileName)
	return cfg, nil
}

// resolveResources merges command-line flags into the configured resources.
// Any of --from, --diff or --outpath replaces the configured resources by a
// single one built from the flags.
func resolveResources(flags *pflag.FlagSet, cfg *config.File, a syncArgs, sourceLang string) ([]config.ResolvedResource, error) {
	var resources []config.ResolvedResource
	if flags.Changed("from") || flags.Changed("diff") || flags.Changed("outpath") {
		resources = []config.ResolvedResource{{
			Name:     "default",
			Source:   a.from,
			Diff:     a.diff,
			OutPath:  a.outPath,
			Locales:  cfg.Locales,
			Glossary: cfg.Glossary.Name,
		}}
	} else {
		resources = cfg.Resolve()
	}

	locales := uniqueLocales(a.locales)
	for i := range resources {
		r := &resources[i]
		if len(locales) > 0 {
			r.Locales = locales
		}
		if flags.Changed("glossary") {
			r.Glossary = a.glossary
		}
		if len(r.Locales) == 0 {
			r.Locales = filterOutLang(config.DetectLocales(r.OutPath, r.Source), sourceLang)
			if len(r.Locales) > 0 {
				logDebug("Detected locales for %s: %s", r.Name, strings.Join(r.Locales, ", "))
			}
		}
		if len(r.Locales) == 0 {
			return nil, fmt.Errorf(i18n.T("no target locale for %s: pass --locale or list locales in %s"), r.Source, config.FileName)
		}
		for _, l := range r.Locales {
			if _, err := language.Parse(l); err != nil {
				return nil, fmt.Errorf("%w %q", cloudtranslate.ErrInvalidLocale, l)
			}
		}
	}
	return resources, nil
}

// connect loads the service-account key and exchanges it for a token.
func connect(ctx context.Context, cfg *config.File) (*auth.Credentials, string, error) {
	path := settings.ResolveCredentialsPath(credentialsFlag, cfg.CredentialsPath())
	logDebug("Using credentials %s", path)

	creds, err := auth.Load(path)
	if err != nil {
		if errors.Is(err, auth.ErrMissingCredentials) {
			return nil, "", fmt.Errorf("%w\n  %s", err, i18n.T("Run 'ftlsync auth login <key.json>' or pass --credentials."))
		}
		return nil, "", err
	}
	token, err := creds.AccessToken(ctx)
	if err != nil {
		return nil, "", err
	}
	logDebug("Authenticated as %s (project %s)", creds.Email(), creds.ProjectID())
	return creds, token, nil
}

// clientSettings holds what every per-locale API client shares.
type clientSettings struct {
	token      string
	projectID  string
	location   string
	sourceLang string
	timeout    time.Duration
	ignoreCase bool
}

func (cs clientSettings) client(targetLang, glossary string) *cloudtranslate.Client {
	opts := []cloudtranslate.Option{
		cloudtranslate.WithLocation(cs.location),
		cloudtranslate.WithSourceLanguage(cs.sourceLang),
		cloudtranslate.WithTimeout(cs.timeout),
	}
	if glossary != "" {
		opts = append(opts, cloudtranslate.WithGlossary(glossary, cs.ignoreCase))
	}
	if endpoint := os.Getenv(envEndpoint); endpoint != "" {
		opts = append(opts, cloudtranslate.WithBaseURL(endpoint))
	}
	return cloudtranslate.New(cs.token, cs.projectID, targetLang, opts...)
}

// validateLocales checks every target locale before any file is touched.
func validateLocales(ctx context.Context, cs clientSettings, resources []config.ResolvedResource) error {
	checked := make(map[string]bool)
	for _, r := range resources {
		for _, l := range r.Locales {
			if checked[l] {
				continue
			}
			checked[l] = true
			if err := cs.client(l, "").ValidateLocale(ctx, l); err != nil {
				if errors.Is(err, cloudtranslate.ErrUnsupportedLocale) {
					return fmt.Errorf("%w\n  %s", err, i18n.T("Run 'ftlsync languages' to list supported locales."))
				}
				return err
			}
		}
	}
	return nil
}

// syncOptions wires translation callbacks to the terminal. The returned
// function finishes the progress bar.
func syncOptions(sourceLang, locale string, a syncArgs) (translate.Options, func()) {
	var bar *progressbar.ProgressBar
	clearBar := func() {
		if bar != nil {
			_ = bar.Clear()
		}
	}

	opts := translate.Options{
		SourceLang: sourceLang,
		TargetLang: locale,
		DryRun:     a.dryRun,
		Verbose:    verbose,
		OnLog: func(format string, args ...any) {
			clearBar()
			logInfo(format, args...)
		},
		OnError: func(format string, args ...any) {
			clearBar()
			logWarning(format, args...)
		},
	}
	if !a.noProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		opts.OnProgress = func(id string, done, total int) {
			if bar == nil {
				bar = newProgressBar(total, locale)
			}
			bar.Describe(fmt.Sprintf("%-6s %s", locale, id))
			_ = bar.Set(done)
		}
	}

	return opts, func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}
}

func newProgressBar(total int, locale string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(locale),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(!color.NoColor),
	)
}

func reportSummary(sum *translate.Summary, dryRun bool) {
	if dryRun {
		fmt.Printf("%s (%s)\n", sum.OutPath, sum.Locale)
		for _, d := range sum.Plan {
			verdict := color.GreenString("%-9s", d.Verdict)
			if d.Verdict == change.NeedsTranslation {
				verdict = color.YellowString("%-9s", d.Verdict)
			}
			fmt.Printf("  %s %-40s %s\n", verdict, d.ID, d.Reason)
		}
		logInfo(i18n.N("%s: %d message would be translated", "%s: %d messages would be translated", sum.Translated), sum.Locale, sum.Translated)
		return
	}
	if sum.Fallbacks > 0 {
		logWarning(i18n.N("%s: %d message kept its source text", "%s: %d messages kept their source text", sum.Fallbacks), sum.Locale, sum.Fallbacks)
	}
	if sum.ParseErrors > 0 {
		logWarning(i18n.N("%s: %d syntax error skipped", "%s: %d syntax errors skipped", sum.ParseErrors), sum.Locale, sum.ParseErrors)
	}
}

// signalContext returns a context cancelled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			logWarning(i18n.T("Interrupted, stopping..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// ---------------------------------------------------------------------------
// languages
// ---------------------------------------------------------------------------

func newLanguagesCmd() *cobra.Command {
	var (
		displayLang string
		native      bool
		source      bool
	)

	cmd := &cobra.Command{
		Use:   "languages",
		Short: i18n.T("List the locales supported as translation targets"),
		Long: i18n.T(`List every language Cloud Translation accepts as a target, one per line:

  display name => 'code'

Display names are given in --display-lang. With --native the name of
each language in itself is appended. With --source the languages usable
as --source-lang are listed instead.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			creds, token, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			cs := clientSettings{
				token:     token,
				projectID: creds.ProjectID(),
				location:  firstNonEmpty(locationFlag, cfg.Location),
				timeout:   timeoutFlag,
			}
			all, err := cs.client(displayLang, "").Languages(ctx, displayLang)
			if err != nil {
				return err
			}
			langs := filterLanguages(all, source)
			sort.Slice(langs, func(i, j int) bool { return langs[i].Code < langs[j].Code })

			out := cmd.OutOrStdout()
			for _, l := range langs {
				fmt.Fprintln(out, formatLanguage(l, native))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&displayLang, "display-lang", "en", i18n.T("Language of the display names"))
	cmd.Flags().BoolVar(&native, "native", false, i18n.T("Also show each language's own name"))
	cmd.Flags().BoolVar(&source, "source", false, i18n.T("List languages usable as source instead of targets"))

	return cmd
}

// filterLanguages keeps the languages supported as targets, or as sources
// when source is set.
func filterLanguages(langs []cloudtranslate.Language, source bool) []cloudtranslate.Language {
	out := make([]cloudtranslate.Language, 0, len(langs))
	for _, l := range langs {
		if (source && l.SupportSource) || (!source && l.SupportTarget) {
			out = append(out, l)
		}
	}
	return out
}

func formatLanguage(l cloudtranslate.Language, native bool) string {
	line := fmt.Sprintf("%s => '%s'", l.DisplayName, l.Code)
	if native {
		if name := nativeName(l.Code); name != "" && name != l.DisplayName {
			line += " (" + name + ")"
		}
	}
	return line
}

// nativeName returns the name of a language in itself, or "".
func nativeName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.Self.Name(tag)
}

// ---------------------------------------------------------------------------
// gen-completions
// ---------------------------------------------------------------------------

func newCompletionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "gen-completions <shell>",
		Short:     i18n.T("Generate a shell completion script"),
		Long:      i18n.T("Write a completion script for bash, zsh, fish or powershell to standard output."),
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf(i18n.T("unsupported shell %q (want bash, zsh, fish or powershell)"), args[0])
		},
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage the service-account key"),
		Long: i18n.T(`Remember, forget or show the Google Cloud service-account key used to
call Cloud Translation.

The key is looked up in this order:
  1. --credentials
  2. $FTLSYNC_CREDENTIALS
  3. credentials in .ftlsync.yaml
  4. the key remembered by 'ftlsync auth login'
  5. ./credentials.json

Examples:
  ftlsync auth login key.json            Check and remember key.json
  ftlsync auth status                    Show which key would be used
  ftlsync auth logout                    Forget the remembered key`),
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthStatusCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "login [key.json]",
		Short: i18n.T("Check and remember a service-account key"),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstNonEmpty(credentialsFlag, settings.DefaultCredentialsFile)
			if len(args) == 1 {
				path = args[0]
			}

			creds, err := auth.Load(path)
			if err != nil {
				return err
			}
			if !noVerify {
				ctx, cancel := signalContext()
				defer cancel()
				if _, err := creds.AccessToken(ctx); err != nil {
					return err
				}
				logSuccess(i18n.T("Key accepted by Google for %s"), creds.Email())
			}

			if err := settings.SetServiceAccount(settings.DefaultProfile, path, creds.ProjectID(), creds.Email()); err != nil {
				return err
			}
			logSuccess(i18n.T("Remembered %s (project %s)"), path, creds.ProjectID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, i18n.T("Do not request a token to check the key"))

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: i18n.T("Forget the remembered key"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess(i18n.T("All remembered keys removed"))
				return nil
			}
			if settings.Get(settings.DefaultProfile) == nil {
				logInfo(i18n.T("No key is remembered"))
				return nil
			}
			if err := settings.Remove(settings.DefaultProfile); err != nil {
				return err
			}
			logSuccess(i18n.T("Remembered key removed"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, i18n.T("Remove every profile and the settings file"))

	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"list", "ls"},
		Short:   i18n.T("Show the remembered keys and which one is used"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w := cmd.ErrOrStderr()
			heading := color.New(color.FgBlue).SprintFunc()
			section := color.New(color.FgYellow).SprintFunc()

			fmt.Fprintf(w, "\n%s\n", heading(i18n.T("Service-account keys")))
			fmt.Fprintln(w, strings.Repeat("─", 60))

			fmt.Fprintf(w, "\n  %s (%s)\n", section(i18n.T("Remembered")), fmt.Sprintf(i18n.T("stored in %s"), settings.FilePath()))
			store := settings.Load()
			profiles := make([]string, 0, len(store))
			for p := range store {
				profiles = append(profiles, p)
			}
			sort.Strings(profiles)
			if len(profiles) == 0 {
				fmt.Fprintf(w, "  %s\n", color.RedString(i18n.T("none")))
			}
			for _, p := range profiles {
				info := store[p]
				fmt.Fprintf(w, "  %-10s %s\n", p, info.CredentialsPath)
				if info.ProjectID != "" {
					fmt.Fprintf(w, "  %10s project: %s, %s\n", "", info.ProjectID, info.Email)
				}
			}

			fmt.Fprintf(w, "\n  %s\n", section(i18n.T("In use")))
			path := settings.ResolveCredentialsPath(credentialsFlag, cfg.CredentialsPath())
			status := color.GreenString(i18n.T("found"))
			if _, err := auth.Load(path); err != nil {
				status = color.RedString("%v", err)
			}
			fmt.Fprintf(w, "  %s: %s\n", path, status)
			if env := os.Getenv(settings.EnvCredentials); env != "" {
				fmt.Fprintf(w, "  %s=%s %s\n", settings.EnvCredentials, env, i18n.T("(overrides remembered keys)"))
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  i18n.T("Display version, commit hash, and build date."),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ftlsync version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// uniqueLocales trims locale codes and drops empty and repeated ones,
// keeping the first occurrence.
func uniqueLocales(locales []string) []string {
	seen := make(map[string]bool, len(locales))
	var result []string
	for _, l := range locales {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		result = append(result, l)
	}
	return result
}

// filterOutLang removes every occurrence of lang.
func filterOutLang(langs []string, lang string) []string {
	var result []string
	for _, l := range langs {
		if l != lang {
			result = append(result, l)
		}
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
