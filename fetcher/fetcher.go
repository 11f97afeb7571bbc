// Package fetcher loads conversation pages from disk, over plain HTTP, or
// through headless Chrome when the page only renders with JavaScript.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// FetchResult contains the fetched HTML and metadata.
type FetchResult struct {
	HTML        string
	FinalURL    string // URL after following redirects, or the file path
	UsedBrowser bool
	FetchTime   time.Duration
}

// Options configures the fetcher behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
	ChromePath     string        // Path to Chrome binary (empty = auto-detect)
	UseBrowser     bool          // Render URLs in Chrome instead of plain HTTP
	ScrollDelay    time.Duration // Pause after each scroll while content loads
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		TimeoutSeconds: 30,
		ScrollDelay:    350 * time.Millisecond,
	}
}

// Package-level options (set via Configure)
var opts = DefaultOptions()

// Configure sets the package-level options.
func Configure(o Options) {
	if o.UserAgent != "" {
		opts.UserAgent = o.UserAgent
	}
	if o.TimeoutSeconds > 0 {
		opts.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.ScrollDelay > 0 {
		opts.ScrollDelay = o.ScrollDelay
	}
	opts.ChromePath = o.ChromePath // Can be empty
	opts.UseBrowser = o.UseBrowser
}

// Timeout returns the currently configured timeout duration.
func Timeout() time.Duration {
	return time.Duration(opts.TimeoutSeconds) * time.Second
}

// userDataDir returns a persistent directory for Chrome user data, so a
// logged-in chat session survives between runs.
func userDataDir() string {
	dir, _ := os.UserCacheDir()
	return filepath.Join(dir, "chatmd-chrome-profile")
}

// IsURL reports whether target is an http(s) URL rather than a file path.
func IsURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load reads target as a file path, or fetches it when it is a URL.
func Load(ctx context.Context, target string) (*FetchResult, error) {
	if target == "" || target == "-" {
		return readFrom(os.Stdin, "stdin")
	}
	if !IsURL(target) {
		return ReadFile(target)
	}
	if opts.UseBrowser {
		return WithBrowser(ctx, target)
	}
	return Simple(ctx, target)
}

// ReadFile loads a saved page.
func ReadFile(path string) (*FetchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return readFrom(f, "file://"+filepath.ToSlash(abs))
}

func readFrom(r io.Reader, source string) (*FetchResult, error) {
	start := time.Now()
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return &FetchResult{
		HTML:      string(body),
		FinalURL:  source,
		FetchTime: time.Since(start),
	}, nil
}

// Simple fetches a URL using standard HTTP (fast, low bandwidth). Chat UIs
// that render client-side need WithBrowser instead.
func Simple(ctx context.Context, url string) (*FetchResult, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	client := &http.Client{Timeout: Timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &FetchResult{
		HTML:      string(body),
		FinalURL:  resp.Request.URL.String(),
		FetchTime: time.Since(start),
	}, nil
}

// WithBrowser renders a URL in headless Chrome. Before the DOM is captured the
// page is scrolled to the top, to the bottom and back so lazily rendered turns
// are present.
func WithBrowser(ctx context.Context, targetURL string) (*FetchResult, error) {
	start := time.Now()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("password-store", "basic"),
		chromedp.Flag("use-mock-keychain", true),
		chromedp.Flag("headless", "new"),
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(1440, 1000),
		chromedp.UserDataDir(userDataDir()),
	}
	if opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	// Browser fetches get extra time
	timeout := Timeout()
	if timeout < 30*time.Second {
		timeout = 45 * time.Second
	} else {
		timeout = timeout + 15*time.Second
	}
	tctx, cancel := context.WithTimeout(allocCtx, timeout)
	defer cancel()

	bctx, cancel := chromedp.NewContext(tctx)
	defer cancel()

	var html, finalURL string
	err := chromedp.Run(bctx,
		network.SetExtraHTTPHeaders(network.Headers(map[string]interface{}{
			"Accept-Language": "en-US,en;q=0.9",
		})),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		scrollTo("0"),
		chromedp.Sleep(opts.ScrollDelay),
		scrollTo("document.body.scrollHeight"),
		chromedp.Sleep(opts.ScrollDelay),
		scrollTo("0"),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch: %w", err)
	}

	return &FetchResult{
		HTML:        html,
		FinalURL:    finalURL,
		UsedBrowser: true,
		FetchTime:   time.Since(start),
	}, nil
}

func scrollTo(top string) chromedp.Action {
	var done bool
	js := "window.scrollTo({top: " + top + ", behavior: 'auto'}), true"
	return chromedp.Evaluate(js, &done)
}

// SourceLabel is the "Source:" line shown in exports.
func SourceLabel(r *FetchResult) string {
	return strings.TrimSpace(r.FinalURL)
}
