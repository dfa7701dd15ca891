package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/openedx/bok-choy/pkg/browserenv"
)

// engine names a Playwright browser type plus an optional release channel.
type engine struct {
	name    string
	channel string
}

// engineFor maps each supported browser to the Playwright engine that drives it
// locally. Internet Explorer has no Playwright engine; Edge (its successor,
// which ships an IE mode) stands in through the Chromium "msedge" channel.
func engineFor(browser browserenv.Browser) (engine, error) {
	switch browser {
	case browserenv.BrowserFirefox:
		return engine{name: "firefox"}, nil
	case browserenv.BrowserChrome:
		return engine{name: "chromium"}, nil
	case browserenv.BrowserInternetExplorer:
		return engine{name: "chromium", channel: "msedge"}, nil
	case browserenv.BrowserSafari:
		return engine{name: "webkit"}, nil
	default:
		return engine{}, fmt.Errorf("no local engine for browser %s", browser)
	}
}

// PlaywrightOption configures a PlaywrightLauncher.
type PlaywrightOption func(*PlaywrightLauncher)

// WithHeaded opens visible browser windows.
func WithHeaded() PlaywrightOption {
	return func(l *PlaywrightLauncher) { l.headless = false }
}

// WithInstall downloads the Playwright driver and browsers before first use.
func WithInstall() PlaywrightOption {
	return func(l *PlaywrightLauncher) { l.install = true }
}

// WithTimeout sets the default timeout for page operations.
func WithTimeout(d time.Duration) PlaywrightOption {
	return func(l *PlaywrightLauncher) { l.timeout = d }
}

// PlaywrightLauncher launches local browsers through Playwright. The
// Playwright driver is started lazily on the first Launch and shared by every
// session until Stop.
type PlaywrightLauncher struct {
	headless bool
	install  bool
	timeout  time.Duration

	mu         sync.Mutex
	playwright *playwright.Playwright
}

// NewPlaywrightLauncher creates a headless launcher.
func NewPlaywrightLauncher(opts ...PlaywrightOption) *PlaywrightLauncher {
	l := &PlaywrightLauncher{
		headless: true,
		timeout:  30 * time.Second,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// ensure starts the Playwright driver if it is not running.
func (l *PlaywrightLauncher) ensure() (*playwright.Playwright, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.playwright != nil {
		return l.playwright, nil
	}

	// Keep driver chatter out of test output
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if l.install {
		if err := playwright.Install(opts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	l.playwright = pw
	return pw, nil
}

// launchOptions translates session arguments into Playwright launch options.
func (l *PlaywrightLauncher) launchOptions(eng engine, args browserenv.SessionArgs) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(l.headless),
	}
	if eng.channel != "" {
		opts.Channel = playwright.String(eng.channel)
	}
	if server, ok := proxyServer(args); ok {
		opts.Proxy = &playwright.Proxy{Server: server}
	}
	return opts
}

// Launch starts browser locally and opens one page.
func (l *PlaywrightLauncher) Launch(ctx context.Context, browser browserenv.Browser, args browserenv.SessionArgs) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eng, err := engineFor(browser)
	if err != nil {
		return nil, err
	}

	pw, err := l.ensure()
	if err != nil {
		return nil, err
	}

	var browserType playwright.BrowserType
	switch eng.name {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	b, err := browserType.Launch(l.launchOptions(eng, args))
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(l.timeout.Milliseconds()))

	s := &playwrightSession{browser: b, page: page}
	page.OnConsole(s.recordConsole)
	return s, nil
}

// Stop shuts down the Playwright driver. Sessions must be closed first.
func (l *PlaywrightLauncher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.playwright == nil {
		return nil
	}
	err := l.playwright.Stop()
	l.playwright = nil
	return err
}

// playwrightSession is a locally launched browser with a single page.
type playwrightSession struct {
	browser playwright.Browser
	page    playwright.Page

	mu      sync.Mutex
	console []LogEntry
}

// Page returns the session's page for driving the browser.
func (s *playwrightSession) Page() playwright.Page {
	return s.page
}

func (s *playwrightSession) recordConsole(msg playwright.ConsoleMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.console = append(s.console, consoleEntry(msg.Type(), msg.Text(), time.Now()))
}

// consoleEntry maps a console message onto WebDriver log levels.
func consoleEntry(kind, text string, at time.Time) LogEntry {
	level := "INFO"
	switch kind {
	case "error":
		level = "SEVERE"
	case "warning":
		level = "WARNING"
	case "debug", "trace":
		level = "DEBUG"
	}
	return LogEntry{Level: level, Message: text, Timestamp: at.UnixMilli()}
}

// SaveScreenshot writes a PNG of the current viewport to path.
func (s *playwrightSession) SaveScreenshot(path string) error {
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	return nil
}

// Logs returns console messages for the "browser" category. Playwright has no
// equivalent of the driver, client or server categories.
func (s *playwrightSession) Logs(category string) ([]LogEntry, error) {
	if category != "browser" {
		return nil, fmt.Errorf("playwright %q: %w", category, ErrUnsupportedLogCategory)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.console))
	copy(out, s.console)
	return out, nil
}

// Close closes the page and the browser.
func (s *playwrightSession) Close() error {
	_ = s.page.Close() // Ignore errors, continue cleanup
	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
