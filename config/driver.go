package config

import (
	"fmt"

	"pagepilot/browser"
)

// Driver is the singleton driver block selecting the page backend.
type Driver struct {
	Backend    string `hcl:"backend"`
	Browser    string `hcl:"browser,optional"`
	Headless   *bool  `hcl:"headless,optional"`
	TimeoutMs  uint64 `hcl:"timeout_ms,optional"`
	PluginPath string `hcl:"plugin_path,optional"`
}

var supportedBrowsers = []string{"chromium", "firefox", "webkit"}

func (d *Driver) Validate() error {
	if !browser.ValidBackend(d.Backend) {
		return fmt.Errorf("Unsupported backend; Backend '%s' is not supported. Supported backends: %v", d.Backend, browser.Backends)
	}

	if d.Browser != "" {
		known := false
		for _, b := range supportedBrowsers {
			if d.Browser == b {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("Unsupported browser; Browser '%s' is not supported. Supported browsers: %v", d.Browser, supportedBrowsers)
		}
	}

	return nil
}

// IsHeadless reports the headless setting; an absent attribute means
// headless.
func (d *Driver) IsHeadless() bool {
	if d == nil || d.Headless == nil {
		return true
	}
	return *d.Headless
}

// BrowserOptions translates the block into driver factory options.
func (d *Driver) BrowserOptions() browser.Options {
	opts := browser.Options{Headless: true}
	if d == nil {
		return opts
	}
	opts.Backend = browser.Backend(d.Backend)
	opts.Browser = d.Browser
	opts.Headless = d.IsHeadless()
	opts.TimeoutMs = d.TimeoutMs
	return opts
}
