package browserenv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration matches every *ConfigurationError with errors.Is.
var ErrConfiguration = errors.New("browser configuration error")

// ErrorKind classifies a ConfigurationError.
type ErrorKind int

const (
	// MissingVariables: required variables of the selected mode are unset or empty.
	MissingVariables ErrorKind = iota + 1
	// UnsupportedBrowser: SELENIUM_BROWSER names a browser outside the supported set.
	UnsupportedBrowser
	// IncompleteJobTracking: only one of JOB_NAME and BUILD_NUMBER is set.
	IncompleteJobTracking
)

func (k ErrorKind) String() string {
	switch k {
	case MissingVariables:
		return "missing variables"
	case UnsupportedBrowser:
		return "unsupported browser"
	case IncompleteJobTracking:
		return "incomplete job tracking"
	default:
		return "unknown"
	}
}

// ConfigurationError reports a misconfigured environment.
type ConfigurationError struct {
	Kind ErrorKind

	// Variables lists the missing variable names (MissingVariables,
	// IncompleteJobTracking).
	Variables []string

	// Browser is the rejected identifier (UnsupportedBrowser).
	Browser string

	// Supported lists the accepted identifiers (UnsupportedBrowser).
	Supported []string
}

func (e *ConfigurationError) Error() string {
	switch e.Kind {
	case MissingVariables:
		return "These environment variables must be set: " + strings.Join(e.Variables, ", ")
	case UnsupportedBrowser:
		return fmt.Sprintf("Unsupported browser: %q. Options are: %s", e.Browser, strings.Join(e.Supported, ", "))
	case IncompleteJobTracking:
		return fmt.Sprintf("Missing %s environment var", strings.Join(e.Variables, ", "))
	default:
		return ErrConfiguration.Error()
	}
}

// Is makes errors.Is(err, ErrConfiguration) true.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConfigurationErrors flattens err into every *ConfigurationError it carries,
// including those joined with errors.Join.
func ConfigurationErrors(err error) []*ConfigurationError {
	if err == nil {
		return nil
	}

	var out []*ConfigurationError
	switch x := err.(type) {
	case *ConfigurationError:
		out = append(out, x)
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			out = append(out, ConfigurationErrors(inner)...)
		}
	case interface{ Unwrap() error }:
		out = append(out, ConfigurationErrors(x.Unwrap())...)
	}
	return out
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
