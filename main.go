// Chatmd exports chat conversations to Markdown.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chatmd/chat"
	"chatmd/collector"
	"chatmd/config"
	"chatmd/export"
	"chatmd/fetcher"
	"chatmd/i18n"
	"chatmd/llm"
	"chatmd/logger"
	"chatmd/markdown"
	"chatmd/session"
	"chatmd/settings"
	"chatmd/summary"
	"chatmd/ui"
	"chatmd/watch"
)

// options holds everything parsed from the command line.
type options struct {
	command   string
	args      []string
	selection string
	outDir    string
	browser   bool
	scope     string
	locale    string
}

func main() {
	var o options
	initConfig := false

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// Flags that take a value
		next := func() string {
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "error: %s needs a value\n", arg)
				os.Exit(2)
			}
			i++
			return args[i]
		}

		switch arg {
		case "-s", "--select":
			o.selection = next()
		case "-o", "--out":
			o.outDir = next()
		case "--scope":
			o.scope = next()
		case "--locale":
			o.locale = next()
		case "--browser":
			o.browser = true
		case "--init-config":
			initConfig = true
		case "-h", "--help":
			printUsage()
			return
		default:
			if strings.HasPrefix(arg, "-") && arg != "-" {
				fmt.Fprintf(os.Stderr, "error: unknown option %s\n", arg)
				os.Exit(2)
			}
			if o.command == "" {
				o.command = arg
			} else {
				o.args = append(o.args, arg)
			}
		}
	}

	// Generate default config and exit
	if initConfig {
		fmt.Print(config.DefaultTOML())
		return
	}

	if o.command == "" {
		printUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Chatmd - Chat Conversation Exporter

Usage: chatmd [options] <command> <file|url>

Commands:
  messages            Print the whole transcript as Markdown
  questions           List the user questions
  pairs               List the answered questions available for export
  export              Export selected questions and answers to a Markdown file
  summarize           Summarize selected questions with the active provider
  watch               Re-list questions whenever the page changes
  providers [use ID]  List summary providers, or switch the active one

Options:
  -s, --select SEL    Questions to use: "all", "1,3-5" or pair ids (qa-2)
  -o, --out DIR       Directory for exported files (default from config)
  --browser           Render URLs in headless Chrome
  --scope LABEL       Scope label for summaries
  --locale en|zh      Interface language
  --init-config       Output default config (redirect to ~/.config/chatmd/config.toml)
  -h, --help          Show this help

Examples:
  chatmd messages saved-chat.html
  chatmd export -s all saved-chat.html
  chatmd summarize -s 1,3-5 --browser https://chatgpt.com/share/abc
  chatmd providers use anthropic
  chatmd --init-config > ~/.config/chatmd/config.toml

Configuration:
  Config file: ~/.config/chatmd/config.toml
  Provider settings: <user config dir>/chatmd/settings.json
  API keys may also be set in the environment or a .env file`)
}

// app is the wiring shared by every command.
type app struct {
	opts         options
	cfg          *config.Config
	log          zerolog.Logger
	settings     *settings.Settings
	settingsPath string
	locale       i18n.Locale
	collector    *collector.Collector
	state        *session.State
	out          io.Writer
	in           io.Reader
	now          func() time.Time
}

func newApp(o options) (*app, error) {
	// Load configuration (defaults + user overrides)
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\n\n%s", err, config.FormatError(err))
	}
	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	// Configure the fetcher with user settings
	fetcher.Configure(fetcher.Options{
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		ChromePath:     cfg.Fetcher.ChromePath,
		UseBrowser:     cfg.Fetcher.UseBrowser || o.browser,
		ScrollDelay:    time.Duration(cfg.Fetcher.ScrollDelayMs) * time.Millisecond,
	})

	path, err := settings.Path()
	if err != nil {
		return nil, fmt.Errorf("locating settings: %w", err)
	}
	s, err := settings.Load(path)
	if err != nil {
		return nil, err
	}

	locale := s.Locale
	if o.locale != "" {
		locale = i18n.Resolve(o.locale)
	}

	c, err := collector.New(cfg.Selectors, log)
	if err != nil {
		return nil, err
	}

	if o.outDir == "" {
		o.outDir = cfg.Export.Dir
	}

	return &app{
		opts:         o,
		cfg:          cfg,
		log:          log,
		settings:     s,
		settingsPath: path,
		locale:       locale,
		collector:    c,
		state:        session.New(),
		out:          os.Stdout,
		in:           os.Stdin,
		now:          time.Now,
	}, nil
}

func run(ctx context.Context, o options) error {
	a, err := newApp(o)
	if err != nil {
		return err
	}

	switch o.command {
	case "messages":
		return a.messages(ctx)
	case "questions":
		return a.questions(ctx)
	case "pairs":
		return a.pairs(ctx)
	case "export":
		return a.export(ctx)
	case "summarize":
		return a.summarize(ctx)
	case "watch":
		return a.watch(ctx)
	case "providers":
		return a.providers()
	default:
		return fmt.Errorf("unknown command %q (see chatmd --help)", o.command)
	}
}

// page is one loaded and parsed conversation.
type page struct {
	doc    *goquery.Document
	title  string
	source string
}

func (a *app) target() string {
	if len(a.opts.args) == 0 {
		return "-"
	}
	return a.opts.args[0]
}

func (a *app) load(ctx context.Context) (*page, error) {
	res, err := fetcher.Load(ctx, a.target())
	if err != nil {
		return nil, err
	}
	a.log.Debug().
		Str("source", res.FinalURL).
		Bool("browser", res.UsedBrowser).
		Dur("took", res.FetchTime).
		Msg("page loaded")

	doc, err := collector.ParseDocument(strings.NewReader(res.HTML))
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = a.cfg.Export.Title
	}
	return &page{doc: doc, title: title, source: fetcher.SourceLabel(res)}, nil
}

func (a *app) notice(key string) error {
	fmt.Fprintln(a.out, i18n.T(a.locale, key))
	return nil
}

func (a *app) messages(ctx context.Context) error {
	p, err := a.load(ctx)
	if err != nil {
		return err
	}

	msgs := a.collector.Messages(p.doc.Selection)
	if len(msgs) == 0 {
		return a.notice("noMessages")
	}
	fmt.Fprint(a.out, markdown.BuildMessagesDocument(p.title, p.source, msgs, a.now()))
	return nil
}

func (a *app) questions(ctx context.Context) error {
	p, err := a.load(ctx)
	if err != nil {
		return err
	}

	entries := a.collector.UserQuestions(p.doc.Selection)
	a.state.UpdateQuestions(entries)
	fmt.Fprint(a.out, ui.RenderQuestions(entries, a.locale, ui.Width(os.Stdout)))
	return nil
}

// loadPairs groups the page into pairs and caches them in the session.
func (a *app) loadPairs(ctx context.Context) (*page, []chat.QAPair, error) {
	p, err := a.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	pairs := a.collector.Pairs(p.doc.Selection)
	a.state.SetPairs(pairs)
	return p, pairs, nil
}

func (a *app) pairs(ctx context.Context) error {
	_, pairs, err := a.loadPairs(ctx)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return a.notice("noAnswers")
	}
	fmt.Fprint(a.out, ui.RenderPairs(pairs, a.locale, ui.Width(os.Stdout)))
	return nil
}

// choose resolves the selection flag, prompting when it is absent and stdin
// is not the page source.
func (a *app) choose(pairs []chat.QAPair) ([]chat.QAPair, error) {
	input := a.opts.selection
	if input == "" {
		if a.target() == "-" {
			input = "all"
		} else {
			fmt.Fprint(a.out, ui.RenderPairs(pairs, a.locale, ui.Width(os.Stdout)))
			fmt.Fprint(a.out, i18n.T(a.locale, "selectPrompt")+" ")
			line, err := bufio.NewReader(a.in).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("reading selection: %w", err)
			}
			input = line
		}
	}

	ids, err := ui.ParseSelection(input, pairs)
	if err != nil {
		return nil, err
	}
	return a.state.Selected(ids)
}

func (a *app) export(ctx context.Context) error {
	p, pairs, err := a.loadPairs(ctx)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return a.notice("noAnswers")
	}

	selected, err := a.choose(pairs)
	if errors.Is(err, session.ErrEmptySelection) {
		return a.notice("selectionEmpty")
	}
	if err != nil {
		return err
	}

	now := a.now()
	content := markdown.BuildQADocument(p.title, p.source, selected, now)
	path, err := export.Write(a.opts.outDir, export.FileName(p.title, now), content)
	if err != nil {
		return err
	}

	a.log.Info().Int("pairs", len(selected)).Str("path", path).Msg("exported")
	fmt.Fprintf(a.out, "%s %s\n", i18n.T(a.locale, "exported"), path)
	return nil
}

// client builds the provider client. Keys from the environment are applied
// to a copy so they are never written back to the settings file.
// registry returns the saved providers with API keys from the environment
// filled in. The copy is never saved.
func (a *app) registry() llm.Registry {
	reg := a.settings.Providers
	withEnv := &settings.Settings{Providers: llm.Registry{
		ActiveProviderID: reg.ActiveProviderID,
		Providers:        append([]llm.ProviderConfig(nil), reg.Providers...),
	}}
	withEnv.ApplyEnvKeys(os.Getenv)
	return withEnv.Providers
}

func (a *app) summarize(ctx context.Context) error {
	p, pairs, err := a.loadPairs(ctx)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return a.notice("noAnswers")
	}

	selected, err := a.choose(pairs)
	if errors.Is(err, session.ErrEmptySelection) {
		return a.notice("selectionEmpty")
	}
	if err != nil {
		return err
	}

	provider, pcfg, err := llm.NewActive(a.registry())
	if err != nil {
		return err
	}

	scope := a.opts.scope
	if scope == "" {
		scope = defaultScope(len(selected), len(pairs))
	}

	s := &summary.Summarizer{
		Config:   *pcfg,
		Provider: provider,
		Log:      a.log,
		Now:      a.now,
	}
	res, err := s.Summarize(ctx, summary.Request{
		Pairs:    selected,
		Scope:    scope,
		Title:    p.title,
		Template: a.settings.PromptTemplate(),
	})
	if err != nil {
		return err
	}

	path, err := export.Write(a.opts.outDir, res.FileName, res.Document)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", i18n.T(a.locale, "summaryDone"), path)
	return nil
}

func defaultScope(selected, total int) string {
	if selected == total {
		return "Entire conversation"
	}
	return fmt.Sprintf("Selected questions (%d of %d)", selected, total)
}

func (a *app) watch(ctx context.Context) error {
	if a.target() == "-" {
		return errors.New("watch needs a file or URL")
	}

	source := func(ctx context.Context) (*goquery.Document, error) {
		p, err := a.load(ctx)
		if err != nil {
			return nil, err
		}
		return p.doc, nil
	}

	a.state.TogglePanel("questions")
	w := watch.New(source, a.collector, a.state, a.cfg.Debounce(), a.log)
	w.OnChange = func(entries []chat.QuestionEntry) {
		if a.state.OpenPanel() != "questions" {
			return
		}
		fmt.Fprint(a.out, ui.RenderQuestions(entries, a.locale, ui.Width(os.Stdout)))
	}
	w.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watch.Poll(gctx, a.cfg.PollInterval(), w)
	})
	g.Go(func() error {
		<-gctx.Done()
		w.Stop()
		return nil
	})

	err := g.Wait()
	a.state.ClosePanel()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) providers() error {
	if len(a.opts.args) >= 2 && a.opts.args[0] == "use" {
		return a.useProvider(a.opts.args[1])
	}

	reg := a.registry()
	client, err := llm.NewClientFromRegistry(reg)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, ui.RenderProviders(reg, client, a.locale))
	return nil
}

func (a *app) useProvider(id string) error {
	if err := a.settings.Providers.SetActive(id); err != nil {
		return err
	}
	if a.opts.locale != "" {
		a.settings.Locale = a.locale
	}
	if err := settings.Save(a.settingsPath, a.settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	fmt.Fprintf(a.out, "%s: %s\n", i18n.T(a.locale, "active"), id)
	return nil
}
