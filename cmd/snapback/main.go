package main

import (
	"fmt"
	"os"
	"time"

	"snapback/internal/app"
	"snapback/internal/backup"
	"snapback/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configFile is the --config override; empty means the default location.
var configFile string

// configPath resolves the config file location: the --config flag wins,
// then SNAPBACK_CONFIG_PATH, then ~/.config/snapback.toml.
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	defaults, err := app.GetDefaults()
	if err != nil {
		return "", fmt.Errorf("getting defaults: %w", err)
	}
	return defaults["config_path"], nil
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp() (*app.App, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// progressPrinter returns a per-file outcome callback when stdout is a
// terminal, nil otherwise. Non-interactive invocations (cron, pipes) get
// only the final summary.
func progressPrinter() func(backup.Outcome) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	return func(o backup.Outcome) {
		switch o.Kind {
		case backup.Failed:
			fmt.Printf("failed     %s: %v\n", o.Rel, o.Err.Err)
		default:
			fmt.Printf("%-10s %s\n", o.Kind, o.Rel)
		}
	}
}

func printSummary(s *backup.Summary) {
	fmt.Printf("\n%d candidate(s): %d processed, %d skipped, %d failed in %s\n",
		s.Candidates, s.Processed, s.Skipped, s.Failed,
		s.Duration().Truncate(time.Millisecond),
	)
	for _, f := range s.Failures {
		fmt.Printf("  failed: %s\n", f)
	}
}

// runBackup is shared by the run and resume commands; they differ only in
// the operation label recorded in history.
func runBackup(operation string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var summary *backup.Summary
	if operation == "resume" {
		summary, err = a.Resume(progressPrinter())
	} else {
		summary, err = a.Run(progressPrinter())
	}
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	printSummary(summary)
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "snapback",
	Short: "Incremental compressing backup tool",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a backup pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackup("run")
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Continue an interrupted backup pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBackup("resume")
	},
}

// setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the initial configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		destination, _ := cmd.Flags().GetString("destination")
		registryPath, _ := cmd.Flags().GetString("registry")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg := config.NewConfig(source, destination, defaults["base_dir"])
		if registryPath != "" {
			cfg.RegistryPath = registryPath
		}

		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		fmt.Printf("Configuration written to %s\n", path)
		fmt.Printf("Source:      %s\n", cfg.SourcePath)
		fmt.Printf("Destination: %s\n", cfg.DestinationPath)
		fmt.Printf("Registry:    %s\n", cfg.RegistryPath)
		return nil
	},
}

// decompress command
var decompressCmd = &cobra.Command{
	Use:   "decompress ARTIFACT [DESTINATION]",
	Short: "Restore a single artifact to a plain file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		codecName, _ := cmd.Flags().GetString("codec")

		output := ""
		if len(args) > 1 {
			output = args[1]
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.Decompress(args[0], output, codecName)
		if err != nil {
			return err
		}
		fmt.Printf("Restored %s\n", out)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded backup runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt.Valid {
				d := r.FinishedAt.Time.Sub(r.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-8s  %s  %-22s  p:%d s:%d f:%d  %s\n",
				r.ID,
				r.Operation,
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.Status,
				r.Processed,
				r.Skipped,
				r.Failed,
				duration,
			)
		}
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		destination, _ := cmd.Flags().GetString("destination")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg := config.NewConfig(source, destination, defaults["base_dir"])
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}

		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Source:      %s\n", cfg.SourcePath)
		fmt.Printf("Destination: %s\n", cfg.DestinationPath)
		fmt.Printf("Registry:    %s\n", cfg.RegistryPath)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Compression: %s\n", cfg.Compression.Type)
		fmt.Printf("Store:       %s\n", cfg.Store.Type)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $SNAPBACK_CONFIG_PATH or ~/.config/snapback.toml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)

	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringP("source", "s", "", "Source directory to back up")
	setupCmd.Flags().StringP("destination", "d", "", "Destination directory for artifacts")
	setupCmd.Flags().StringP("registry", "r", "", "Registry file path (default: <base dir>/registry.json)")
	setupCmd.MarkFlagRequired("source")

	rootCmd.AddCommand(decompressCmd)
	decompressCmd.Flags().StringP("codec", "c", "", "Codec name (default: inferred from artifact suffix)")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")

	// config subcommands
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().StringP("source", "s", "", "Source directory to back up")
	configInitCmd.Flags().StringP("destination", "d", "", "Destination directory for artifacts")
	configInitCmd.MarkFlagRequired("source")
	configCmd.AddCommand(configListCmd)
}
