package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cameronapriest/OSmemoryallocator/contig"
	"github.com/cameronapriest/OSmemoryallocator/internal/config"
	"github.com/cameronapriest/OSmemoryallocator/internal/shell"
	"github.com/cameronapriest/OSmemoryallocator/memutils"
	"github.com/cameronapriest/OSmemoryallocator/memutils/defrag"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

var (
	configPath string
	logLevel   string
	debug      bool
	jsonStats  bool
	validate   bool
)

var rootCmd = &cobra.Command{
	Use:   "allocator <bytes>",
	Short: "Simulate contiguous memory allocation",
	Long: `allocator manages a simulated address space of the given number of bytes.
Processes are placed with first fit, best fit or worst fit, released back into
holes that merge with their neighbors, and compacted on demand.

Commands:
  RQ <name> <bytes> <F|B|W>   request memory for a process
  RL <name>                   release a process
  C                           compact all holes into one
  STAT                        report the state of memory
  X                           exit`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Print segments and process names after every request")
	rootCmd.Flags().BoolVar(&jsonStats, "json-stats", false, "Print STAT as a detailed JSON map")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "Check every invariant of the address space after each change")
}

const capacityMessage = "Please enter a positive number of bytes to be allocated."

func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}
	if cmd.Flags().Changed("json-stats") {
		cfg.JSONStats = jsonStats
	}
	if cmd.Flags().Changed("validate") {
		cfg.ValidateOperations = validate
	}

	if len(args) == 1 {
		capacity, err := strconv.Atoi(args[0])
		if err != nil || capacity <= 0 {
			return cfg, errors.New(capacityMessage)
		}
		cfg.Capacity = capacity
	}

	if cfg.Capacity <= 0 {
		return cfg, errors.New(capacityMessage)
	}
	if cfg.Capacity > memutils.MaxCapacity {
		return cfg, errors.Newf("Please enter a positive number of bytes less than or equal to %d.", memutils.MaxCapacity)
	}

	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	out := cmd.OutOrStdout()

	var flags contig.CreateFlags
	if cfg.ValidateOperations {
		flags |= contig.EngineCreateValidateOperations
	}

	options := contig.CreateOptions{Flags: flags}
	if cfg.Debug {
		options.CompactionHandler = func(move defrag.Move) {
			fmt.Fprintf(out, "Moved process %s from %d to %d (%d bytes)\n", move.Process, move.SrcOffset, move.DstOffset, move.Size)
		}
		fmt.Fprintf(out, "\nMaximum number of bytes: %d\n\n", cfg.Capacity)
	}

	engine, err := contig.New(logger, cfg.Capacity, options)
	if err != nil {
		return err
	}
	defer engine.Close()

	sh := shell.New(logger, engine, out, shell.Options{
		Debug:     cfg.Debug,
		JSONStats: cfg.JSONStats,
	})

	return sh.Run(cmd.InOrStdin())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		styles := shell.DefaultStyles(os.Stderr)
		fmt.Fprintf(os.Stderr, "\n%s\n\n", styles.Error.Render(err.Error()))
		os.Exit(1)
	}
}
