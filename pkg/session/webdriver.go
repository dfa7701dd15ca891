package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tebeka/selenium"
	selog "github.com/tebeka/selenium/log"

	"github.com/openedx/bok-choy/pkg/browserenv"
)

// remoteDriver is the part of selenium.WebDriver a session needs.
type remoteDriver interface {
	Screenshot() ([]byte, error)
	Log(typ selog.Type) ([]selog.Message, error)
	Quit() error
}

type newRemoteFunc func(caps selenium.Capabilities, urlPrefix string) (remoteDriver, error)

func seleniumNewRemote(caps selenium.Capabilities, urlPrefix string) (remoteDriver, error) {
	wd, err := selenium.NewRemote(caps, urlPrefix)
	if err != nil {
		return nil, err
	}
	return wd, nil
}

// WebDriverConnector creates sessions on a remote WebDriver hub such as
// Selenium Grid or a Sauce Connect tunnel.
type WebDriverConnector struct {
	newRemote newRemoteFunc
}

// NewWebDriverConnector creates a connector backed by github.com/tebeka/selenium.
func NewWebDriverConnector() *WebDriverConnector {
	return &WebDriverConnector{newRemote: seleniumNewRemote}
}

// Connect requests a new session from args.CommandExecutor with the desired
// capabilities in args.
func (c *WebDriverConnector) Connect(ctx context.Context, args browserenv.SessionArgs) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if args.CommandExecutor == "" {
		return nil, errors.New("no command executor URL")
	}

	caps := selenium.Capabilities(args.DesiredCapabilities.Map())
	if caps == nil {
		caps = selenium.Capabilities{}
	}

	wd, err := c.newRemote(caps, args.CommandExecutor)
	if err != nil {
		return nil, fmt.Errorf("failed to create remote session: %w", err)
	}
	return &webDriverSession{driver: wd}, nil
}

// webDriverSession is a session on a remote WebDriver hub.
type webDriverSession struct {
	driver remoteDriver
}

// SaveScreenshot fetches a PNG from the hub and writes it to path.
func (s *webDriverSession) SaveScreenshot(path string) error {
	data, err := s.driver.Screenshot()
	if err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}

// Logs retrieves log entries of the given category from the hub.
func (s *webDriverSession) Logs(category string) ([]LogEntry, error) {
	messages, err := s.driver.Log(selog.Type(category))
	if err != nil {
		return nil, fmt.Errorf("webdriver %q log: %w", category, err)
	}

	entries := make([]LogEntry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, LogEntry{
			Level:     string(m.Level),
			Message:   m.Message,
			Timestamp: m.Timestamp.UnixMilli(),
		})
	}
	return entries, nil
}

// Close ends the remote session.
func (s *webDriverSession) Close() error {
	if err := s.driver.Quit(); err != nil {
		return fmt.Errorf("failed to quit remote session: %w", err)
	}
	return nil
}
