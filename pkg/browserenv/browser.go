package browserenv

// Browser identifies one of the supported browsers.
type Browser int

// Supported browsers, in the order they are listed to users.
const (
	BrowserFirefox Browser = iota + 1
	BrowserChrome
	BrowserInternetExplorer
	BrowserSafari
)

// DefaultBrowser is used in Local mode when SELENIUM_BROWSER is not set.
const DefaultBrowser = BrowserFirefox

// ProxyType is the Selenium proxy type marker.
type ProxyType string

const (
	ProxyManual     ProxyType = "MANUAL"
	ProxyAutodetect ProxyType = "AUTODETECT"
)

type browserInfo struct {
	id        string
	proxyType ProxyType
}

// browsers is indexed by Browser; index 0 is the invalid zero value.
var browsers = [...]browserInfo{
	BrowserFirefox:          {id: "firefox", proxyType: ProxyManual},
	BrowserChrome:           {id: "chrome", proxyType: ProxyAutodetect},
	BrowserInternetExplorer: {id: "internet explorer", proxyType: ProxyManual},
	BrowserSafari:           {id: "safari", proxyType: ProxyAutodetect},
}

// ParseBrowser maps a SELENIUM_BROWSER identifier to a Browser.
// Identifiers are matched exactly.
func ParseBrowser(id string) (Browser, bool) {
	for b := BrowserFirefox; b <= BrowserSafari; b++ {
		if browsers[b].id == id {
			return b, true
		}
	}
	return 0, false
}

// SupportedBrowsers returns every accepted identifier.
func SupportedBrowsers() []string {
	ids := make([]string, 0, len(browsers)-1)
	for b := BrowserFirefox; b <= BrowserSafari; b++ {
		ids = append(ids, browsers[b].id)
	}
	return ids
}

// Valid reports whether b is one of the declared browsers.
func (b Browser) Valid() bool {
	return b >= BrowserFirefox && b <= BrowserSafari
}

// String returns the identifier used in SELENIUM_BROWSER and in the
// browserName capability.
func (b Browser) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return browsers[b].id
}

// ProxyType returns the proxy type the browser's driver expects.
func (b Browser) ProxyType() ProxyType {
	if !b.Valid() {
		return ""
	}
	return browsers[b].proxyType
}
