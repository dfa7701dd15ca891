// Package session hands a browserenv.Resolution to a browser-automation client
// and saves screenshots and driver logs from the resulting session.
//
// Local sessions are launched through Playwright; remote sessions are created
// on a WebDriver hub. Both are reached through small interfaces so callers and
// tests can plug in other clients.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/openedx/bok-choy/pkg/browserenv"
	"github.com/openedx/bok-choy/pkg/logging"
)

// ErrUnsupportedLogCategory is returned (wrapped) by a LogSource that does not
// provide the requested category.
var ErrUnsupportedLogCategory = errors.New("log category not supported")

// Session is a browser session created from a Resolution.
type Session interface {
	Close() error
}

// Screenshotter is implemented by sessions that can save a screenshot.
type Screenshotter interface {
	SaveScreenshot(path string) error
}

// LogSource is implemented by sessions that expose driver logs.
type LogSource interface {
	Logs(category string) ([]LogEntry, error)
}

// LogEntry is one driver log line.
type LogEntry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	// Timestamp is in milliseconds since the Unix epoch.
	Timestamp int64 `json:"timestamp"`
}

// Launcher starts a browser on this machine.
type Launcher interface {
	Launch(ctx context.Context, browser browserenv.Browser, args browserenv.SessionArgs) (Session, error)
}

// Connector creates a session on a remote WebDriver endpoint.
type Connector interface {
	Connect(ctx context.Context, args browserenv.SessionArgs) (Session, error)
}

// Opener dispatches resolutions to a Launcher or a Connector.
type Opener struct {
	launcher  Launcher
	connector Connector
	logger    *logging.Logger
}

// NewOpener creates an Opener. Either client may be nil if the corresponding
// mode is never used; a nil logger discards output.
func NewOpener(launcher Launcher, connector Connector, logger *logging.Logger) *Opener {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Opener{
		launcher:  launcher,
		connector: connector,
		logger:    logger,
	}
}

// Open constructs the session described by res. Nothing is retried.
func (o *Opener) Open(ctx context.Context, res *browserenv.Resolution) (Session, error) {
	if res == nil {
		return nil, fmt.Errorf("session: nil resolution")
	}

	if res.Mode.IsRemote() {
		if o.connector == nil {
			return nil, fmt.Errorf("session: no connector configured for %s mode", res.Mode)
		}
		o.logger.Infof("connecting to %s", res.Args.CommandExecutor)
		s, err := o.connector.Connect(ctx, res.Args)
		if err != nil {
			return nil, fmt.Errorf("session: connect to %s: %w", res.Args.CommandExecutor, err)
		}
		return s, nil
	}

	if o.launcher == nil {
		return nil, fmt.Errorf("session: no launcher configured for %s mode", res.Mode)
	}
	o.logger.Infof("launching local %s", res.Browser)
	s, err := o.launcher.Launch(ctx, res.Browser, res.Args)
	if err != nil {
		return nil, fmt.Errorf("session: launch %s: %w", res.Browser, err)
	}
	return s, nil
}

// proxyServer returns the proxy host injected by browserenv.ApplyProxy, looking
// at the capabilities argument first and desired capabilities second.
func proxyServer(args browserenv.SessionArgs) (string, bool) {
	for _, caps := range []*browserenv.Capabilities{args.Capabilities, args.DesiredCapabilities} {
		value, ok := caps.Get(browserenv.CapProxy)
		if !ok {
			continue
		}
		block, ok := value.(*browserenv.Capabilities)
		if !ok {
			continue
		}
		if host, ok := block.GetString("httpProxy"); ok && host != "" {
			return host, true
		}
	}
	return "", false
}
