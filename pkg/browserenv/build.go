package browserenv

import (
	"fmt"

	"github.com/openedx/bok-choy/pkg/env"
)

// Capability keys.
const (
	CapBrowserName       = "browserName"
	CapVideoUploadOnPass = "video-upload-on-pass"
	CapSauceAdvisor      = "sauce-advisor"
	CapCaptureHTML       = "capture-html"
	CapRecordScreenshots = "record-screenshots"
	CapMaxDuration       = "max-duration"
	CapPublic            = "public"
	CapTags              = "tags"
	CapPlatform          = "platform"
	CapVersion           = "version"
	CapUsername          = "username"
	CapAccessKey         = "accessKey"
	CapBuild             = "build"
	CapName              = "name"
	CapProxy             = "proxy"
)

// Recording and visibility defaults sent with every remote session.
const (
	MaxDurationSeconds = 600
	Visibility         = "public restricted"
)

// Endpoint is the address of a remote WebDriver service.
type Endpoint struct {
	Host string
	Port string
}

// URL returns the WebDriver hub URL. The endpoint is assumed to be reachable
// over plain HTTP (e.g. a local Sauce Connect tunnel).
func (e Endpoint) URL() string {
	return fmt.Sprintf("http://%s:%s/wd/hub", e.Host, e.Port)
}

// BuildCapabilities assembles the desired capabilities for a validated
// source. Keys are added in a fixed order: base block, ManagedCloud block,
// then the job-tracking block.
//
// Tags are attached only in ModeManagedCloud; other modes get an empty list.
func BuildCapabilities(src env.Source, mode Mode, browser Browser, tags []string) *Capabilities {
	sessionTags := []string{}
	if mode == ModeManagedCloud {
		sessionTags = append(sessionTags, tags...)
	}

	caps := NewCapabilities().
		Set(CapBrowserName, browser.String()).
		Set(CapVideoUploadOnPass, false).
		Set(CapSauceAdvisor, false).
		Set(CapCaptureHTML, true).
		Set(CapRecordScreenshots, true).
		Set(CapMaxDuration, MaxDurationSeconds).
		Set(CapPublic, Visibility).
		Set(CapTags, sessionTags)

	if mode == ModeManagedCloud {
		caps.Set(CapPlatform, src.Get(EnvPlatform, "")).
			Set(CapVersion, src.Get(EnvVersion, "")).
			Set(CapUsername, src.Get(EnvSauceUserName, "")).
			Set(CapAccessKey, src.Get(EnvSauceAPIKey, ""))
	}

	// Links the remote job to the CI build
	build, hasBuild := src.Lookup(EnvBuildNumber)
	name, hasName := src.Lookup(EnvJobName)
	if hasBuild && hasName {
		caps.Set(CapBuild, build).
			Set(CapName, name)
	}

	return caps
}

// endpointFrom reads the remote endpoint from a validated source.
func endpointFrom(src env.Source) *Endpoint {
	return &Endpoint{
		Host: src.Get(EnvHost, ""),
		Port: src.Get(EnvPort, ""),
	}
}
