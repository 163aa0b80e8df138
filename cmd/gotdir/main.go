// Command gotdir translates text with automatic direction switching.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ZaguanLabs/gotdir"
	"github.com/ZaguanLabs/gotdir/cache"
	"github.com/ZaguanLabs/gotdir/config"
	"github.com/ZaguanLabs/gotdir/logger"
	"github.com/ZaguanLabs/gotdir/provider"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = gotdir.Version
	commit    = gotdir.GitCommit
	buildDate = gotdir.BuildDate
)

var (
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	okColor   = color.New(color.FgGreen)
	dimColor  = color.New(color.Faint)
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command-line flags.
type options struct {
	configPath string
	initMode   bool
	check      bool
	watch      bool
	batch      bool
	workers    int
	jsonOut    bool
	quiet      bool
	debug      bool
	set        map[string]bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gotdir", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options

	// Flags
	fs.StringVar(&opts.configPath, "config", "", "Settings file (default: "+config.DefaultPath()+")")
	fs.BoolVar(&opts.initMode, "init", false, "Prompt for the default languages and write the settings file")
	fs.BoolVar(&opts.check, "check", false, "Print the direction TEXT would be translated in, without translating")
	fs.BoolVar(&opts.watch, "watch", false, "Read input changes from stdin, one per line, and print each direction decision")
	fs.BoolVar(&opts.batch, "batch", false, "Translate every stdin line concurrently")
	fs.IntVar(&opts.workers, "workers", gotdir.DefaultBatchWorkers, "Concurrent requests in --batch mode")
	from := fs.String("from", "", "Source language of the default direction")
	to := fs.String("to", "", "Target language of the default direction")
	backend := fs.String("backend", "", "Backend: openai, google or mock")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: GOTDIR_API_KEY or OPENAI_API_KEY env)")
	model := fs.String("model", "", "OpenAI model to use")
	threshold := fs.Int("threshold", 0, "Popup threshold in runes; longer translations are echoed")
	noSwitch := fs.Bool("no-switch", false, "Disable direction auto-switching")
	redisURL := fs.String("redis", "", "Redis URL for the translation cache")
	cacheTTL := fs.Int("cache-ttl", 0, "Cache TTL in seconds (0: no expiry)")
	cacheFile := fs.String("cache-file", "", "Persist the in-memory cache to this file")
	fs.BoolVar(&opts.jsonOut, "json", false, "Output results as JSON")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress status output and logs")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", gotdir.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	if opts.initMode {
		_, err := config.InitFile(path, stdin, stdout)
		return err
	}

	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// Flags override the settings file and the environment.
	if opts.set["from"] {
		settings.Source = *from
	}
	if opts.set["to"] {
		settings.Target = *to
	}
	if opts.set["backend"] {
		settings.Backend.Name = *backend
	}
	if opts.set["api-key"] {
		settings.Backend.APIKey = *apiKey
	}
	if opts.set["model"] {
		settings.Backend.Model = *model
	}
	if opts.set["threshold"] {
		settings.PopupThreshold = *threshold
	}
	if *noSwitch {
		settings.AutoSwitch = false
	}
	if opts.set["redis"] {
		settings.Cache.RedisURL = *redisURL
	}
	if opts.set["cache-ttl"] {
		settings.Cache.TTLSeconds = *cacheTTL
	}
	if opts.set["cache-file"] {
		settings.Cache.File = *cacheFile
	}
	settings.Normalize()
	if err := settings.Validate(); err != nil {
		return err
	}

	logEnv := settings.Log.Env
	if opts.quiet {
		logEnv = "quiet"
	}
	if _, err := logger.Init(logEnv, opts.debug || settings.Log.Debug); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Named("cli")

	for _, w := range settings.Warnings() {
		log.Warn("settings problem", zap.Error(w))
	}

	ctx := context.Background()

	switch {
	case opts.check:
		return runCheck(settings, fs.Args(), stdout, stderr, opts)
	case opts.watch:
		return runWatch(path, settings, stdin, stdout, opts, log)
	}

	host, closeHost, err := buildHost(settings, stderr, opts, log)
	if err != nil {
		return err
	}
	defer closeHost()

	var renderer gotdir.Renderer
	if !opts.jsonOut {
		renderer = newRenderer(settings, stdout, opts)
	}

	translator := gotdir.NewTranslator(host,
		gotdir.WithSwitcher(settings.Switcher(log)),
		gotdir.WithLogger(log),
	)

	if opts.batch {
		lines, err := readLines(stdin)
		if err != nil {
			return err
		}
		return runBatch(ctx, translator, settings.Direction(), lines, renderer, stdout, stderr, opts)
	}

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	}
	if strings.TrimSpace(text) == "" {
		fs.Usage()
		return fmt.Errorf("nothing to translate")
	}

	start := time.Now()
	result, err := translator.Translate(ctx, settings.Direction(), text)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	if opts.jsonOut {
		return writeJSON(stdout, newJSONResult(result))
	}
	if err := renderer.Render(ctx, result); err != nil {
		return err
	}

	if !opts.quiet {
		status := "translated"
		if result.Cached {
			status = "from cache"
		}
		dimColor.Fprintf(stderr, "%s in %v\n", status, elapsed.Round(time.Millisecond))
	}
	return nil
}

// newRenderer picks the output surface. The popup box only makes sense on a
// terminal; elsewhere everything is echoed unless --threshold is given.
func newRenderer(s *config.Settings, stdout io.Writer, opts options) gotdir.Renderer {
	if !isTerminal(stdout) && !opts.set["threshold"] {
		return gotdir.NewEchoRenderer(stdout)
	}
	return gotdir.NewThresholdRenderer(stdout, s.PopupThreshold)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// buildHost creates the backend and wraps it in the configured decorators.
// The returned func persists the cache file, if any, and releases the cache.
func buildHost(s *config.Settings, stderr io.Writer, opts options, log *zap.Logger) (gotdir.Host, func(), error) {
	backend, err := newBackend(s)
	if err != nil {
		return nil, nil, err
	}

	c, closeCache, err := openCache(s, stderr, opts, log)
	if err != nil {
		return nil, nil, err
	}

	var tc gotdir.TranslationCache
	if c != nil {
		tc = c
	}
	return gotdir.Compose(backend, s.Stack(tc, log)), closeCache, nil
}

func newBackend(s *config.Settings) (gotdir.Host, error) {
	switch strings.ToLower(s.Backend.Name) {
	case provider.BackendMock:
		return provider.NewMockHost(), nil
	case provider.BackendGoogle:
		return provider.NewGoogleProvider(provider.GoogleConfig{BaseURL: s.Backend.BaseURL}), nil
	default:
		if s.Backend.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required (--api-key, GOTDIR_API_KEY or OPENAI_API_KEY env)")
		}
		return provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  s.Backend.APIKey,
			Model:   s.Backend.Model,
			BaseURL: s.Backend.BaseURL,
		}), nil
	}
}

// openCache returns nil when caching is disabled.
func openCache(s *config.Settings, stderr io.Writer, opts options, log *zap.Logger) (cache.TranslationCache, func(), error) {
	noop := func() {}
	if !s.Cache.Enabled {
		return nil, noop, nil
	}

	if s.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:    s.Cache.RedisURL,
			TTL:    s.Cache.TTLSeconds,
			Logger: log.Named("cache"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rc, func() { _ = rc.Close() }, nil
	}

	mc := cache.NewInMemoryCache(s.Cache.TTLSeconds, s.Cache.MaxEntries)
	if s.Cache.File == "" {
		return mc, noop, nil
	}

	path := s.Cache.File
	res, err := cache.NewImporter(mc).ImportFromFile(path)
	if err != nil {
		// A broken cache file only costs requests.
		log.Warn("ignoring cache file", zap.String("path", path), zap.Error(err))
	} else if res.Imported > 0 && !opts.quiet {
		dimColor.Fprintf(stderr, "Loaded %s cached translations (%s) from %s\n",
			humanize.Comma(int64(res.Imported)), fileSize(path), path)
	}

	return mc, func() {
		n, err := cache.NewExporter(mc).ExportToFile(path, map[string]string{
			"backend": s.Backend.Name,
			"version": gotdir.FullVersion(),
		})
		if err != nil {
			warnColor.Fprintf(stderr, "warning: saving cache: %v\n", err)
			return
		}
		if !opts.quiet {
			dimColor.Fprintf(stderr, "Saved %s cached translations (%s) to %s\n",
				humanize.Comma(int64(n)), fileSize(path), path)
		}
	}, nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}

// checkOutput is the JSON form of a direction decision.
type checkOutput struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Switched bool   `json:"switched"`
}

// runCheck prints the direction the text would be translated in.
func runCheck(s *config.Settings, args []string, stdout, stderr io.Writer, opts options) error {
	text := strings.Join(args, " ")
	if text == "" {
		return fmt.Errorf("--check needs TEXT")
	}

	current := s.Direction()
	dir, switched := current, false
	if sw := s.Switcher(nil); sw != nil {
		dir, switched = sw.Decide(current, text)
	}

	if opts.jsonOut {
		return writeJSON(stdout, checkOutput{Text: text, Source: dir.Source, Target: dir.Target, Switched: switched})
	}

	fmt.Fprintln(stdout, dir)
	if switched && !opts.quiet {
		okColor.Fprintf(stderr, "switched from %s\n", current)
	}
	return nil
}

// runWatch reads one input state per line and prints a decision for each
// line that differs from the previous one. Rule changes in the settings file
// apply to the following lines.
func runWatch(path string, s *config.Settings, stdin io.Reader, stdout io.Writer, opts options, log *zap.Logger) error {
	var mu sync.Mutex
	watcher := gotdir.NewDirectionWatcher(s.Switcher(log), s.Direction())

	loader := config.NewLoader(path, log)
	if err := loader.Watch(); err != nil {
		log.Debug("settings hot reload unavailable", zap.Error(err))
	} else {
		defer loader.Close()
		loader.OnChange(func(next *config.Settings) {
			mu.Lock()
			defer mu.Unlock()
			watcher = gotdir.NewDirectionWatcher(next.Switcher(log), watcher.Current())
		})
	}

	enc := json.NewEncoder(stdout)
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		mu.Lock()
		d, evaluated := watcher.Update(scanner.Text())
		mu.Unlock()
		if !evaluated {
			continue
		}

		if opts.jsonOut {
			if err := enc.Encode(checkOutput{Text: d.Text, Source: d.Direction.Source, Target: d.Direction.Target, Switched: d.Switched}); err != nil {
				return err
			}
			continue
		}

		marker := " "
		if d.Switched {
			marker = okColor.Sprint("*")
		}
		fmt.Fprintf(stdout, "%s %s\t%s\n", marker, d.Direction, d.Text)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return nil
}

// runBatch translates lines concurrently and outputs them in input order.
func runBatch(ctx context.Context, t *gotdir.Translator, dir gotdir.Direction, lines []string, renderer gotdir.Renderer, stdout, stderr io.Writer, opts options) error {
	start := time.Now()
	batch, err := t.TranslateBatch(ctx, dir, lines, opts.workers)
	if err != nil {
		return fmt.Errorf("batch translation: %w", err)
	}

	if opts.jsonOut {
		out := make([]jsonResult, 0, len(lines))
		for i, res := range batch.Results {
			if batch.Errors[i] != nil {
				out = append(out, jsonResult{Text: lines[i], Error: batch.Errors[i].Error()})
				continue
			}
			out = append(out, newJSONResult(res))
		}
		if err := writeJSON(stdout, out); err != nil {
			return err
		}
	} else {
		for i, res := range batch.Results {
			if batch.Errors[i] != nil {
				errColor.Fprintf(stderr, "line %d: %v\n", i+1, batch.Errors[i])
				continue
			}
			if err := renderer.Render(ctx, res); err != nil {
				return err
			}
		}
	}

	if !opts.quiet {
		dimColor.Fprintf(stderr, "%s lines, %s distinct, %d failed in %v\n",
			humanize.Comma(int64(len(lines))), humanize.Comma(int64(batch.Unique)), batch.Failed(),
			time.Since(start).Round(time.Millisecond))
	}
	if n := batch.Failed(); n > 0 {
		return fmt.Errorf("%d of %d lines failed", n, len(lines))
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if len(lines) == 0 {
		return nil, errors.New("nothing to translate")
	}
	return lines, nil
}

// jsonResult is the JSON output format of one translation.
type jsonResult struct {
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Source      string `json:"source,omitempty"`
	Target      string `json:"target,omitempty"`
	Original    string `json:"original,omitempty"`
	Cached      bool   `json:"cached,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newJSONResult(res *gotdir.Result) jsonResult {
	return jsonResult{
		Text:        res.Text,
		Translation: res.Translation,
		Source:      res.SourceLang,
		Target:      res.TargetLang,
		Original:    res.Original,
		Cached:      res.Cached,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
