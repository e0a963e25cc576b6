package cmd

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"pagepilot/browser"
	"pagepilot/config"
	"pagepilot/plugin"
)

// newDriver opens the configured page session. backend, when non-empty,
// overrides the config block's choice. The plugin backend launches the
// driver binary as a subprocess; everything else runs in process. The
// returned func tears the session down.
func newDriver(cfg *config.Config, backend string, log hclog.Logger) (browser.Driver, func(), error) {
	d := cfg.Driver
	if backend == "" && d != nil {
		backend = d.Backend
	}

	if backend == string(browser.BackendPlugin) {
		path := ""
		if d != nil {
			path = d.PluginPath
		}
		client, err := plugin.Load(path, log.Named("plugin"), pluginArgs(d)...)
		if err != nil {
			return nil, nil, fmt.Errorf("loading driver plugin: %w", err)
		}
		return client.Driver(), func() {
			if err := client.Close(); err != nil {
				log.Warn("closing driver plugin", "error", err)
			}
		}, nil
	}

	opts := d.BrowserOptions()
	opts.Backend = browser.Backend(backend)
	opts.Logger = log.Named("driver")
	drv, err := browser.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return drv, func() {
		if err := drv.Close(); err != nil {
			log.Warn("closing driver", "error", err)
		}
	}, nil
}

// pluginArgs renders the driver block as argv for the plugin binary.
func pluginArgs(d *config.Driver) []string {
	if d == nil {
		return nil
	}
	var args []string
	if d.Browser != "" {
		args = append(args, "--browser", d.Browser)
	}
	if !d.IsHeadless() {
		args = append(args, "--headed")
	}
	if d.TimeoutMs > 0 {
		args = append(args, fmt.Sprintf("--timeout-ms=%d", d.TimeoutMs))
	}
	return args
}
