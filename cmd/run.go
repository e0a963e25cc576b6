package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pagepilot/agent"
	"pagepilot/config"
	"pagepilot/streamers"
	"pagepilot/streamers/cli"
)

var (
	runConfigPath string
	runFile       string
	runURL        string
	runModel      string
	runDriver     string
	runJSON       bool
)

var runCmd = &cobra.Command{
	Use:   "run [task ...]",
	Short: "Run a sequence of tasks against one browser session",
	Long: `Run executes tasks strictly in order against a single page session. A task
whose first word is a known verb (see "pagepilot verbs") executes directly;
anything else goes to the configured model, which replies with commands or a
plain answer. {{PREVIOUS_RESULT}} inside a task is replaced with the previous
task's output.

Tasks come from arguments, from --file, or from stdin. A file holds either a
JSON array of strings or one task per line.

The exit code is 0 when every task succeeds and 1 otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runTasks(args); code != 0 {
			os.Exit(code)
		}
	},
}

func runTasks(args []string) int {
	ctx := context.Background()
	log := newLogger()

	tasks, err := gatherTasks(args, runFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	cfg, err := config.LoadAndValidate(runConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	model, err := selectModel(cfg, runModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	provider, closeProvider, err := newProvider(ctx, model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeProvider()

	driver, closeDriver, err := newDriver(cfg, runDriver, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeDriver()

	var streamer streamers.RunHandler = cli.NewRunHandler()
	if runJSON {
		streamer = streamers.Discard()
	}

	a, err := agent.New(agent.Options{
		Driver:      driver,
		Provider:    provider,
		Model:       model.ModelName,
		MaxTokens:   model.MaxTokens,
		Temperature: model.Temperature,
		Personas:    cfg.PersonaRegistry(),
		Streamer:    streamer,
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if runURL != "" {
		if err := driver.Navigate(runURL); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", runURL, err)
			return 1
		}
	}

	results := a.Run(ctx, tasks)

	if runJSON {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(out))
	}

	failed := 0
	for _, r := range results {
		if !r.Succeeded() {
			failed++
		}
	}
	if failed > 0 {
		if !runJSON {
			fmt.Fprintf(os.Stderr, "\n%d of %d task(s) failed\n", failed, len(results))
		}
		return 1
	}
	return 0
}

// gatherTasks resolves the task list from arguments, a file, or stdin.
func gatherTasks(args []string, file string) ([]string, error) {
	if file != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass tasks as arguments or with --file, not both")
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return parseTasks(data)
	}
	if len(args) > 0 {
		return args, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	return parseTasks(data)
}

// parseTasks accepts a JSON array of strings or newline-delimited text.
func parseTasks(data []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("no tasks provided")
	}
	if strings.HasPrefix(trimmed, "[") {
		var tasks []string
		if err := json.Unmarshal([]byte(trimmed), &tasks); err != nil {
			return nil, fmt.Errorf("parse task array: %w", err)
		}
		if len(tasks) == 0 {
			return nil, fmt.Errorf("no tasks provided")
		}
		return tasks, nil
	}
	var tasks []string
	for _, line := range strings.Split(trimmed, "\n") {
		if line := strings.TrimSpace(line); line != "" {
			tasks = append(tasks, line)
		}
	}
	return tasks, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", ".", "Path to config file or directory")
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "Read tasks from a file instead of arguments")
	runCmd.Flags().StringVarP(&runURL, "url", "u", "", "Open this URL before the first task")
	runCmd.Flags().StringVarP(&runModel, "model", "m", "", "Model block to use (default: first declared)")
	runCmd.Flags().StringVarP(&runDriver, "driver", "d", "", "Driver backend, overriding the config block")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the outcome array as JSON and nothing else")
}
