package browserenv

import "github.com/openedx/bok-choy/pkg/env"

// Validate checks src for the given mode and reports every problem at once.
//
// Remote modes need each of RequiredVars(mode) set to a non-empty value.
// Every mode needs a supported browser (Local falls back to DefaultBrowser when
// SELENIUM_BROWSER is absent) and, when either JOB_NAME or BUILD_NUMBER is set,
// both of them.
//
// The result is nil, a single *ConfigurationError, or several joined with
// errors.Join.
func Validate(src env.Source, mode Mode) error {
	var errs []error

	if missing := missingVars(src, RequiredVars(mode)); len(missing) > 0 {
		errs = append(errs, &ConfigurationError{
			Kind:      MissingVariables,
			Variables: missing,
		})
	}

	// An empty SELENIUM_BROWSER in a remote mode is already reported as missing
	if id, ok := browserID(src, mode); ok {
		if _, supported := ParseBrowser(id); !supported {
			errs = append(errs, &ConfigurationError{
				Kind:      UnsupportedBrowser,
				Browser:   id,
				Supported: SupportedBrowsers(),
			})
		}
	}

	if err := validateJobTracking(src); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

// browserID returns the browser identifier to validate for mode, or false
// when there is nothing meaningful to check.
func browserID(src env.Source, mode Mode) (string, bool) {
	if !mode.IsRemote() {
		return src.Get(EnvBrowser, DefaultBrowser.String()), true
	}
	id, _ := src.Lookup(EnvBrowser)
	return id, id != ""
}

func missingVars(src env.Source, names []string) []string {
	var missing []string
	for _, name := range names {
		if value, ok := src.Lookup(name); !ok || value == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// validateJobTracking requires JOB_NAME and BUILD_NUMBER to be set together.
func validateJobTracking(src env.Source) *ConfigurationError {
	hasJob := src.Has(EnvJobName)
	hasBuild := src.Has(EnvBuildNumber)

	switch {
	case hasJob && !hasBuild:
		return &ConfigurationError{Kind: IncompleteJobTracking, Variables: []string{EnvBuildNumber}}
	case hasBuild && !hasJob:
		return &ConfigurationError{Kind: IncompleteJobTracking, Variables: []string{EnvJobName}}
	default:
		return nil
	}
}
