package browserenv

import "github.com/openedx/bok-choy/pkg/env"

// Environment variable names.
const (
	EnvBrowser       = "SELENIUM_BROWSER"
	EnvHost          = "SELENIUM_HOST"
	EnvPort          = "SELENIUM_PORT"
	EnvVersion       = "SELENIUM_VERSION"
	EnvPlatform      = "SELENIUM_PLATFORM"
	EnvSauceUserName = "SAUCE_USER_NAME"
	EnvSauceAPIKey   = "SAUCE_API_KEY"
	EnvJobName       = "JOB_NAME"
	EnvBuildNumber   = "BUILD_NUMBER"
	EnvScreenshotDir = "SCREENSHOT_DIR"
	EnvDriverLogDir  = "SELENIUM_DRIVER_LOG_DIR"
)

// Mode is the way a browser session is obtained.
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
	ModeManagedCloud
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	case ModeManagedCloud:
		return "managed-cloud"
	default:
		return "unknown"
	}
}

// IsRemote reports whether the mode talks to a remote endpoint.
func (m Mode) IsRemote() bool {
	return m == ModeRemote || m == ModeManagedCloud
}

var (
	remoteVars = []string{
		EnvBrowser,
		EnvHost,
		EnvPort,
	}

	managedCloudVars = append(append([]string{}, remoteVars...),
		EnvVersion,
		EnvPlatform,
		EnvSauceUserName,
		EnvSauceAPIKey,
	)
)

// RequiredVars returns the variables mode needs, in reporting order.
// Local mode requires none.
func RequiredVars(mode Mode) []string {
	switch mode {
	case ModeRemote:
		return append([]string{}, remoteVars...)
	case ModeManagedCloud:
		return append([]string{}, managedCloudVars...)
	default:
		return nil
	}
}

// Classify returns the most specific mode whose variables are all present in
// src. Presence is enough here; empty values are rejected by Validate.
func Classify(src env.Source) Mode {
	if allPresent(src, managedCloudVars) {
		return ModeManagedCloud
	}
	if allPresent(src, remoteVars) {
		return ModeRemote
	}
	return ModeLocal
}

func allPresent(src env.Source, names []string) bool {
	for _, name := range names {
		if !src.Has(name) {
			return false
		}
	}
	return true
}
