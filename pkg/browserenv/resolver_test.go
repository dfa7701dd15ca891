package browserenv

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/openedx/bok-choy/pkg/env"
	"github.com/openedx/bok-choy/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remoteEnv() map[string]string {
	return map[string]string{
		EnvBrowser: "chrome",
		EnvHost:    "localhost",
		EnvPort:    "4444",
	}
}

func sauceEnv() map[string]string {
	m := remoteEnv()
	m[EnvBrowser] = "firefox"
	m[EnvVersion] = "45"
	m[EnvPlatform] = "Windows 10"
	m[EnvSauceUserName] = "bokchoy"
	m[EnvSauceAPIKey] = "s3cr3t"
	return m
}

func with(m map[string]string, kv ...string) map[string]string {
	out := make(map[string]string, len(m)+len(kv)/2)
	for k, v := range m {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}

func without(m map[string]string, names ...string) map[string]string {
	out := with(m)
	for _, name := range names {
		delete(out, name)
	}
	return out
}

func newTestResolver() *Resolver {
	return NewResolver(logging.Discard())
}

func TestResolve_RemoteScenario(t *testing.T) {
	res, err := newTestResolver().Resolve(env.FromMap(remoteEnv()), Request{Tags: []string{"smoke"}})
	require.NoError(t, err)

	assert.Equal(t, ModeRemote, res.Mode)
	assert.Equal(t, BrowserChrome, res.Browser)
	require.NotNil(t, res.Endpoint)
	assert.Equal(t, "http://localhost:4444/wd/hub", res.Endpoint.URL())
	assert.Equal(t, "http://localhost:4444/wd/hub", res.Args.CommandExecutor)
	assert.Nil(t, res.Args.Capabilities)

	caps := res.Capabilities()
	require.NotNil(t, caps)
	assert.Equal(t, []string{
		CapBrowserName, CapVideoUploadOnPass, CapSauceAdvisor, CapCaptureHTML,
		CapRecordScreenshots, CapMaxDuration, CapPublic, CapTags,
	}, caps.Keys())

	tags, _ := caps.Get(CapTags)
	assert.Equal(t, []string{}, tags, "tags are dropped outside ManagedCloud")

	assert.JSONEq(t, `{
		"browserName": "chrome",
		"video-upload-on-pass": false,
		"sauce-advisor": false,
		"capture-html": true,
		"record-screenshots": true,
		"max-duration": 600,
		"public": "public restricted",
		"tags": []
	}`, caps.String())
}

func TestResolve_ManagedCloudScenario(t *testing.T) {
	res, err := newTestResolver().Resolve(env.FromMap(sauceEnv()), Request{Tags: []string{"smoke", "ci"}})
	require.NoError(t, err)

	assert.Equal(t, ModeManagedCloud, res.Mode)
	assert.Equal(t, BrowserFirefox, res.Browser)

	caps := res.Capabilities()
	assert.Equal(t, []string{
		CapBrowserName, CapVideoUploadOnPass, CapSauceAdvisor, CapCaptureHTML,
		CapRecordScreenshots, CapMaxDuration, CapPublic, CapTags,
		CapPlatform, CapVersion, CapUsername, CapAccessKey,
	}, caps.Keys())

	platform, _ := caps.GetString(CapPlatform)
	version, _ := caps.GetString(CapVersion)
	username, _ := caps.GetString(CapUsername)
	accessKey, _ := caps.GetString(CapAccessKey)
	assert.Equal(t, "Windows 10", platform)
	assert.Equal(t, "45", version)
	assert.Equal(t, "bokchoy", username)
	assert.Equal(t, "s3cr3t", accessKey)

	tags, _ := caps.Get(CapTags)
	assert.Equal(t, []string{"smoke", "ci"}, tags)
}

func TestResolve_LocalScenario(t *testing.T) {
	res, err := newTestResolver().Resolve(env.FromMap(nil), Request{})
	require.NoError(t, err)

	assert.Equal(t, ModeLocal, res.Mode)
	assert.Equal(t, BrowserFirefox, res.Browser)
	assert.Nil(t, res.Endpoint)
	assert.Empty(t, res.Args.CommandExecutor)
	assert.Nil(t, res.Capabilities())
}

func TestResolve_LocalBrowserFromEnv(t *testing.T) {
	res, err := newTestResolver().Resolve(env.FromMap(map[string]string{EnvBrowser: "safari"}), Request{})
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, res.Mode)
	assert.Equal(t, BrowserSafari, res.Browser)
}

func TestResolve_UnsupportedBrowserInEveryMode(t *testing.T) {
	envs := map[string]map[string]string{
		"local":         {EnvBrowser: "opera"},
		"remote":        with(remoteEnv(), EnvBrowser, "opera"),
		"managed cloud": with(sauceEnv(), EnvBrowser, "opera"),
	}

	for name, m := range envs {
		t.Run(name, func(t *testing.T) {
			_, err := newTestResolver().Resolve(env.FromMap(m), Request{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)

			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, UnsupportedBrowser, ce.Kind)
			assert.Equal(t, "opera", ce.Browser)
			assert.Equal(t, []string{"firefox", "chrome", "internet explorer", "safari"}, ce.Supported)
			assert.Contains(t, err.Error(), "firefox, chrome, internet explorer, safari")
		})
	}
}

func TestResolve_PartialRemoteFallsBackToLocal(t *testing.T) {
	// Dropping any single Remote variable must never raise
	for _, name := range RequiredVars(ModeRemote) {
		t.Run("without "+name, func(t *testing.T) {
			m := without(remoteEnv(), name)

			res, err := newTestResolver().Resolve(env.FromMap(m), Request{Tags: []string{"smoke"}})
			require.NoError(t, err)
			assert.Equal(t, ModeLocal, res.Mode)
			assert.Nil(t, res.Endpoint)
		})
	}
}

func TestResolve_PartialManagedCloudFallsBackToRemote(t *testing.T) {
	for _, name := range []string{EnvVersion, EnvPlatform, EnvSauceUserName, EnvSauceAPIKey} {
		t.Run("without "+name, func(t *testing.T) {
			res, err := newTestResolver().Resolve(env.FromMap(without(sauceEnv(), name)), Request{Tags: []string{"ci"}})
			require.NoError(t, err)
			assert.Equal(t, ModeRemote, res.Mode)

			caps := res.Capabilities()
			for _, key := range []string{CapPlatform, CapVersion, CapUsername, CapAccessKey} {
				assert.False(t, caps.Has(key), "ManagedCloud key %s leaked into Remote", key)
			}
		})
	}
}

func TestResolve_EmptyRequiredValuesAreMissing(t *testing.T) {
	m := with(sauceEnv(), EnvHost, "", EnvSauceAPIKey, "")

	_, err := newTestResolver().Resolve(env.FromMap(m), Request{})
	require.Error(t, err)

	var ce *ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, MissingVariables, ce.Kind)
	assert.Equal(t, []string{EnvHost, EnvSauceAPIKey}, ce.Variables)
	assert.Equal(t, "These environment variables must be set: SELENIUM_HOST, SAUCE_API_KEY", ce.Error())
}

func TestResolve_JobTrackingPair(t *testing.T) {
	bases := map[string]map[string]string{
		"local":         {},
		"remote":        remoteEnv(),
		"managed cloud": sauceEnv(),
	}

	for name, base := range bases {
		t.Run(name+" job name only", func(t *testing.T) {
			_, err := newTestResolver().Resolve(env.FromMap(with(base, EnvJobName, "bok-choy-ci")), Request{})
			require.Error(t, err)
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, IncompleteJobTracking, ce.Kind)
			assert.Equal(t, "Missing BUILD_NUMBER environment var", ce.Error())
		})

		t.Run(name+" build number only", func(t *testing.T) {
			_, err := newTestResolver().Resolve(env.FromMap(with(base, EnvBuildNumber, "42")), Request{})
			require.Error(t, err)
			var ce *ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, IncompleteJobTracking, ce.Kind)
			assert.Equal(t, "Missing JOB_NAME environment var", ce.Error())
		})
	}
}

func TestResolve_JobTrackingCapabilities(t *testing.T) {
	m := with(sauceEnv(), EnvJobName, "bok-choy-ci", EnvBuildNumber, "42")

	res, err := newTestResolver().Resolve(env.FromMap(m), Request{})
	require.NoError(t, err)

	keys := res.Capabilities().Keys()
	assert.Equal(t, []string{CapBuild, CapName}, keys[len(keys)-2:], "job keys come last")

	build, _ := res.Capabilities().GetString(CapBuild)
	name, _ := res.Capabilities().GetString(CapName)
	assert.Equal(t, "42", build)
	assert.Equal(t, "bok-choy-ci", name)
}

func TestResolve_ReportsAllProblems(t *testing.T) {
	m := with(sauceEnv(), EnvBrowser, "opera", EnvPort, "", EnvPlatform, "", EnvJobName, "ci")

	_, err := newTestResolver().Resolve(env.FromMap(m), Request{})
	require.Error(t, err)

	problems := ConfigurationErrors(err)
	require.Len(t, problems, 3)
	assert.Equal(t, MissingVariables, problems[0].Kind)
	assert.Equal(t, []string{EnvPort, EnvPlatform}, problems[0].Variables)
	assert.Equal(t, UnsupportedBrowser, problems[1].Kind)
	assert.Equal(t, IncompleteJobTracking, problems[2].Kind)
}

func TestResolve_Deterministic(t *testing.T) {
	m := with(sauceEnv(), EnvJobName, "ci", EnvBuildNumber, "7")
	req := Request{Tags: []string{"smoke", "ci"}, Proxy: &Proxy{Host: "proxy:3128"}}

	first, err := newTestResolver().Resolve(env.FromMap(m), req)
	require.NoError(t, err)
	second, err := newTestResolver().Resolve(env.FromMap(m), req)
	require.NoError(t, err)

	a, err := json.Marshal(first.Capabilities())
	require.NoError(t, err)
	b, err := json.Marshal(second.Capabilities())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	// independent objects per call
	first.Capabilities().Set(CapBrowserName, "mutated")
	name, _ := second.Capabilities().GetString(CapBrowserName)
	assert.Equal(t, "firefox", name)
}

func TestResolve_TagsAreCopied(t *testing.T) {
	tags := []string{"smoke"}
	res, err := newTestResolver().Resolve(env.FromMap(sauceEnv()), Request{Tags: tags})
	require.NoError(t, err)

	tags[0] = "mutated"
	got, _ := res.Capabilities().Get(CapTags)
	assert.Equal(t, []string{"smoke"}, got)
}

func TestResolve_NilTagsEncodeAsEmptyList(t *testing.T) {
	res, err := newTestResolver().Resolve(env.FromMap(sauceEnv()), Request{})
	require.NoError(t, err)
	assert.Contains(t, res.Capabilities().String(), `"tags":[]`)
}

func TestResolve_Logging(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"local", map[string]string{}, "Using local browser: firefox [Default is firefox]"},
		{"remote", remoteEnv(), "Using Remote Browser: chrome"},
		{"managed cloud", sauceEnv(), "Using SauceLabs: Windows 10 firefox 45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewResolver(logging.New("browserenv", &buf, logging.WithDebug()))

			_, err := r.Resolve(env.FromMap(tt.env), Request{})
			require.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "s3cr3t", "credentials must not be logged")
		})
	}
}

func TestResolve_NilLoggerDiscards(t *testing.T) {
	r := NewResolver(nil)
	_, err := r.Resolve(env.FromMap(nil), Request{})
	require.NoError(t, err)
}

func TestResolve_ConfigurationErrorIsReturnedBeforeLogging(t *testing.T) {
	var buf bytes.Buffer
	r := NewResolver(logging.New("browserenv", &buf))

	_, err := r.Resolve(env.FromMap(map[string]string{EnvBrowser: "opera"}), Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, strings.Contains(buf.String(), "Using"), "nothing is resolved on failure")
}
