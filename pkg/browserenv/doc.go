// Package browserenv decides, from a snapshot of environment variables, how a
// browser session for automated tests should be obtained, and builds the
// desired capabilities that go with it.
//
// # Modes
//
// Three modes are recognised, checked from most to least specific:
//
//  1. ManagedCloud (SauceLabs, usually through Sauce Connect): all of
//     SELENIUM_BROWSER, SELENIUM_HOST, SELENIUM_PORT, SELENIUM_VERSION,
//     SELENIUM_PLATFORM, SAUCE_USER_NAME and SAUCE_API_KEY are set. These are
//     the variables the SauceLabs Jenkins plugin exports.
//  2. Remote: SELENIUM_BROWSER, SELENIUM_HOST and SELENIUM_PORT are set.
//  3. Local: anything else. SELENIUM_BROWSER picks the local browser and
//     defaults to firefox.
//
// A partially configured remote mode (say, a host without a port) is not an
// error; it resolves to Local.
//
// JOB_NAME and BUILD_NUMBER identify a CI job to the remote service. They are
// optional but must be set together.
//
// # Usage
//
//	res, err := browserenv.Resolve(env.FromOS(), browserenv.Request{
//	    Tags:  []string{"smoke"},
//	    Proxy: &browserenv.Proxy{Host: "localhost:8080"},
//	})
//	if err != nil {
//	    // *ConfigurationError, possibly several joined together
//	}
//	switch res.Mode {
//	case browserenv.ModeLocal:
//	    // launch res.Browser locally
//	default:
//	    // POST res.Args.DesiredCapabilities to res.Args.CommandExecutor
//	}
package browserenv
