package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"pagepilot/agent"
	"pagepilot/browser"
	"pagepilot/config"
	"pagepilot/streamers"
	"pagepilot/wsbridge"
)

var (
	serveConfigPath string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose task runs over a WebSocket endpoint",
	Long: `Serve starts a WebSocket server with a single /ws endpoint. A client sends
a run_tasks envelope carrying a task list; the server streams task_started,
task_completed, and task_failed events and finishes with a run_complete
envelope holding every task's outcome in order.

Each connection owns one browser session, created on its first run and kept
until the connection closes, so page state carries across runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runServe(); code != 0 {
			os.Exit(code)
		}
	},
}

func runServe() int {
	log := newLogger()

	cfg, err := config.LoadAndValidate(serveConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	srv, err := wsbridge.NewServer(wsbridge.Options{
		Sessions: sessionFactory(cfg, log),
		Logger:   log.Named("wsbridge"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	httpSrv := &http.Server{Addr: serveAddr, Handler: srv.Handler()}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	fmt.Printf("Listening on ws://%s/ws\n", displayAddr(serveAddr))

	select {
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	case <-stop:
	}

	fmt.Println("\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "error", err)
	}
	return 0
}

// sessionFactory builds one session per connection: a fresh page session
// and an agent whose events stream to the socket and the process log.
func sessionFactory(cfg *config.Config, log hclog.Logger) wsbridge.SessionFactory {
	return func(modelName string, handler streamers.RunHandler) (wsbridge.Session, error) {
		m, err := selectModel(cfg, modelName)
		if err != nil {
			return nil, err
		}

		provider, closeProvider, err := newProvider(context.Background(), m)
		if err != nil {
			return nil, err
		}

		driver, closeDriver, err := newDriver(cfg, "", log)
		if err != nil {
			closeProvider()
			return nil, err
		}

		a, err := agent.New(agent.Options{
			Driver:      driver,
			Provider:    provider,
			Model:       m.ModelName,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
			Personas:    cfg.PersonaRegistry(),
			Streamer:    streamers.Tee(handler, streamers.NewLogging(log.Named("run"))),
			Logger:      log,
		})
		if err != nil {
			closeDriver()
			closeProvider()
			return nil, err
		}

		return &agentSession{
			agent:         a,
			driver:        driver,
			closeDriver:   closeDriver,
			closeProvider: closeProvider,
		}, nil
	}
}

// agentSession adapts an agent and its driver to the wsbridge session
// interface.
type agentSession struct {
	agent         *agent.Agent
	driver        browser.Driver
	closeDriver   func()
	closeProvider func()
}

func (s *agentSession) Navigate(url string) error {
	return s.driver.Navigate(url)
}

func (s *agentSession) Run(ctx context.Context, tasks []string) []agent.Result {
	return s.agent.Run(ctx, tasks)
}

func (s *agentSession) Close() error {
	s.closeDriver()
	s.closeProvider()
	return nil
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", ".", "Path to config file or directory")
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8765", "Address to listen on")
}
