package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

func main() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var config_file string
	config := DefaultConfig()

	cmd := &cobra.Command{
		Use:           "go-contractor",
		Short:         "Builds a contraction hierarchy from an edge-expanded road graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config_file != "" {
				file_config, err := ReadConfig(config_file)
				if err != nil {
					return err
				}
				// flags set on the command line win over the file
				_MergeFlagOverrides(cmd, &file_config, &config)
				config = file_config
			}
			if err := config.Validate(); err != nil {
				return err
			}
			slog.SetDefault(slog.New(NewLogHandler(os.Stdout, nil)))
			return RunContraction(config)
		},
	}

	cmd.Flags().StringVarP(&config_file, "config", "c", "", "yaml config file")
	cmd.Flags().StringVarP(&config.Prefix, "prefix", "p", "", "path prefix of the input and output files")
	cmd.Flags().Float64Var(&config.Contraction.CoreFactor, "core-factor", 1.0, "fraction of admissible nodes to contract")
	cmd.Flags().BoolVar(&config.Contraction.UseCachedPriority, "use-cached-priority", false, "seed the contraction order from a cached .level file")
	cmd.Flags().IntVar(&config.Contraction.Threads, "threads", 0, "worker thread count (0 = hardware concurrency)")
	cmd.Flags().StringVar(&config.Updater.SpeedFile, "speed-file", "", "csv file with edge weight updates")
	return cmd
}

func _MergeFlagOverrides(cmd *cobra.Command, file_config *Config, flag_config *Config) {
	if cmd.Flags().Changed("prefix") {
		file_config.Prefix = flag_config.Prefix
	}
	if cmd.Flags().Changed("core-factor") {
		file_config.Contraction.CoreFactor = flag_config.Contraction.CoreFactor
	}
	if cmd.Flags().Changed("use-cached-priority") {
		file_config.Contraction.UseCachedPriority = flag_config.Contraction.UseCachedPriority
	}
	if cmd.Flags().Changed("threads") {
		file_config.Contraction.Threads = flag_config.Contraction.Threads
	}
	if cmd.Flags().Changed("speed-file") {
		file_config.Updater.SpeedFile = flag_config.Updater.SpeedFile
	}
}
