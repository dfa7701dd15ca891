package browserenv

// ProxyClass is the type marker Selenium clients expect on a proxy block.
const ProxyClass = "org.openqa.selenium.Proxy"

// Proxy describes an HTTP proxy the browser should route through.
type Proxy struct {
	// Host is the proxy address, e.g. "localhost:8080".
	Host string
}

// SessionArgs are the arguments handed to the session constructor.
type SessionArgs struct {
	// CommandExecutor is the remote endpoint URL. Empty in Local mode.
	CommandExecutor string

	// Capabilities is the "capabilities" argument. Only Firefox launched
	// without desired capabilities receives its proxy block here.
	Capabilities *Capabilities

	// DesiredCapabilities is the "desired capabilities" argument.
	DesiredCapabilities *Capabilities
}

// ProxyCapabilities returns the proxy block for browser. HTTP, FTP and SSL
// traffic all go through proxy.Host; noProxy is left unset (null).
func ProxyCapabilities(browser Browser, proxy Proxy) *Capabilities {
	return NewCapabilities().
		Set("httpProxy", proxy.Host).
		Set("ftpProxy", proxy.Host).
		Set("sslProxy", proxy.Host).
		Set("noProxy", nil).
		Set("proxyType", string(browser.ProxyType())).
		Set("class", ProxyClass)
}

// ApplyProxy injects the proxy block for browser into args.
//
// Firefox without desired capabilities takes it under a fresh Capabilities
// argument; every other case, Firefox with desired capabilities included,
// adds it to DesiredCapabilities (created when absent). The Firefox driver
// only honours a proxy passed that way when launched locally, so this
// asymmetry must stay.
func ApplyProxy(browser Browser, proxy Proxy, args *SessionArgs) {
	block := NewCapabilities().Set(CapProxy, ProxyCapabilities(browser, proxy))

	if browser == BrowserFirefox && args.DesiredCapabilities == nil {
		args.Capabilities = NewCapabilities().Update(block)
		return
	}

	if args.DesiredCapabilities == nil {
		args.DesiredCapabilities = NewCapabilities()
	}
	args.DesiredCapabilities.Update(block)
}
