package browserenv

import (
	"fmt"

	"github.com/openedx/bok-choy/pkg/env"
	"github.com/openedx/bok-choy/pkg/logging"
)

// Request carries the caller-supplied resolution arguments.
type Request struct {
	// Tags label a ManagedCloud job. Ignored in other modes.
	Tags []string

	// Proxy, when set, is injected into the session arguments.
	Proxy *Proxy
}

// Resolution is the outcome of a successful Resolve.
type Resolution struct {
	Mode    Mode
	Browser Browser

	// Endpoint is nil in Local mode.
	Endpoint *Endpoint

	Args SessionArgs
}

// Capabilities returns the desired capabilities sent to the remote endpoint,
// or nil when there are none.
func (r *Resolution) Capabilities() *Capabilities {
	return r.Args.DesiredCapabilities
}

// Describe summarises the resolution in one line.
func (r *Resolution) Describe() string {
	switch r.Mode {
	case ModeManagedCloud:
		caps := r.Capabilities()
		platform, _ := caps.GetString(CapPlatform)
		version, _ := caps.GetString(CapVersion)
		return fmt.Sprintf("SauceLabs: %s %s %s", platform, r.Browser, version)
	case ModeRemote:
		return fmt.Sprintf("Remote Browser: %s", r.Browser)
	default:
		return fmt.Sprintf("local browser: %s", r.Browser)
	}
}

// Resolver turns environment snapshots into Resolutions. It holds no state
// between calls and is safe for concurrent use.
type Resolver struct {
	logger *logging.Logger
}

// NewResolver creates a Resolver logging through logger.
// A nil logger discards output.
func NewResolver(logger *logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{logger: logger}
}

var defaultResolver = NewResolver(logging.New("browserenv", nil))

// Resolve resolves src with a Resolver that logs to stderr.
func Resolve(src env.Source, req Request) (*Resolution, error) {
	return defaultResolver.Resolve(src, req)
}

// Resolve classifies src, validates it and builds the session arguments.
// Configuration problems are returned before anything is built.
func (r *Resolver) Resolve(src env.Source, req Request) (*Resolution, error) {
	mode := Classify(src)

	if err := Validate(src, mode); err != nil {
		return nil, err
	}

	id, _ := browserID(src, mode)
	browser, _ := ParseBrowser(id)

	res := &Resolution{
		Mode:    mode,
		Browser: browser,
	}

	switch mode {
	case ModeLocal:
		r.logger.Infof("Using local browser: %s [Default is %s]", browser, DefaultBrowser)
	default:
		caps := BuildCapabilities(src, mode, browser, req.Tags)
		res.Endpoint = endpointFrom(src)
		res.Args = SessionArgs{
			CommandExecutor:     res.Endpoint.URL(),
			DesiredCapabilities: caps,
		}
		r.logger.Infof("Using %s", res.Describe())
	}

	if req.Proxy != nil {
		ApplyProxy(browser, *req.Proxy, &res.Args)
	}

	r.logger.Debugf("resolved %s session: capabilities=%s desired_capabilities=%s",
		mode, res.Args.Capabilities.Redacted(), res.Args.DesiredCapabilities.Redacted())

	return res, nil
}
