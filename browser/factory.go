package browser

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// Backend names a driver implementation.
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendChromedp   Backend = "chromedp"
	BackendRod        Backend = "rod"
	BackendPlugin     Backend = "plugin"
)

// Backends lists the selectable backends.
var Backends = []Backend{BackendPlaywright, BackendChromedp, BackendRod, BackendPlugin}

// ValidBackend reports whether name refers to a known backend.
func ValidBackend(name string) bool {
	for _, b := range Backends {
		if string(b) == name {
			return true
		}
	}
	return false
}

// Options configures a driver session.
type Options struct {
	// Backend picks the implementation; empty means playwright.
	Backend Backend

	// Browser picks the engine where the backend supports more than one
	// (playwright: chromium, firefox, webkit).
	Browser string

	// Headless launches the browser without a window.
	Headless bool

	// TimeoutMs bounds element operations; zero means DefaultWaitTimeoutMs.
	TimeoutMs uint64

	Logger hclog.Logger
}

func (o Options) operationTimeout() uint64 {
	if o.TimeoutMs == 0 {
		return DefaultWaitTimeoutMs
	}
	return o.TimeoutMs
}

// New opens a live page session on the selected backend.
func New(opts Options) (Driver, error) {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	switch opts.Backend {
	case BackendPlaywright, "":
		return newPlaywright(opts)
	case BackendChromedp:
		return newChromedp(opts)
	case BackendRod:
		return newRod(opts)
	case BackendPlugin:
		return nil, errors.New(`backend "plugin" runs out of process; dispense it through the plugin package`)
	default:
		return nil, fmt.Errorf("unknown driver backend %q", opts.Backend)
	}
}
