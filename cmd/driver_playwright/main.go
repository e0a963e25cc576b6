package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"pagepilot/browser"
	"pagepilot/plugin"
)

// The stock out-of-process page driver. The host launches this binary
// through the plugin backend and passes browser settings as flags.
func main() {
	browserName := flag.String("browser", "chromium", "Browser engine: chromium, firefox, or webkit")
	headed := flag.Bool("headed", false, "Launch the browser with a window")
	timeoutMs := flag.Uint64("timeout-ms", 0, "Element operation timeout in milliseconds")
	flag.Parse()

	log := hclog.New(&hclog.LoggerOptions{
		Name:   "driver-playwright",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	driver, err := browser.New(browser.Options{
		Backend:   browser.BackendPlaywright,
		Browser:   *browserName,
		Headless:  !*headed,
		TimeoutMs: *timeoutMs,
		Logger:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error launching browser: %v\n", err)
		os.Exit(1)
	}

	plugin.Serve(driver)
}
