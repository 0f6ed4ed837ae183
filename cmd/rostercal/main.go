package main

import (
	"os"

	"github.com/spf13/cobra"

	"rostercal/internal/config"
	appLog "rostercal/internal/log"
	"rostercal/internal/pipeline"
)

const version = "0.1.0"

// flagConfig holds CLI flag values; non-empty values override the config file.
type flagConfig struct {
	configPath string
	rosterPath string
	shiftsPath string
	outputPath string
	timezone   string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		appLog.Error("rostercal failed", err)
		appLog.Sync()
		os.Exit(1)
	}
	appLog.Sync()
}

func newRootCmd() *cobra.Command {
	flags := &flagConfig{}

	root := &cobra.Command{
		Use:           "rostercal",
		Short:         "Turn a monthly shift roster into an iCalendar file",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to YAML config file (defaults apply when empty)")
	pf.StringVar(&flags.rosterPath, "roster", "", "Roster text file (overrides config)")
	pf.StringVar(&flags.shiftsPath, "shifts", "", "Shift map JSON/YAML file (overrides config)")
	pf.StringVar(&flags.outputPath, "out", "", "Output .ics path (overrides config)")
	pf.StringVar(&flags.timezone, "tz", "", "IANA timezone for shift times (overrides config)")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "generate",
			Short: "Write the roster calendar (default command)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runGenerate(flags)
			},
		},
		newPreviewCmd(flags),
		newConfigCmd(),
	)

	return root
}

// loadConfig loads the config file and applies CLI overrides.
func loadConfig(flags *flagConfig) (*config.Config, error) {
	conf, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	if flags.rosterPath != "" {
		conf.RosterPath = flags.rosterPath
	}
	if flags.shiftsPath != "" {
		conf.ShiftsPath = flags.shiftsPath
	}
	if flags.outputPath != "" {
		conf.OutputPath = flags.outputPath
	}
	if flags.timezone != "" {
		conf.Timezone = flags.timezone
	}

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, err
	}
	if flags.debug {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	appLog.Debug("effective config",
		"config_path", flags.configPath,
		"roster", conf.RosterPath,
		"shifts", conf.ShiftsPath,
		"output", conf.OutputPath,
		"timezone", conf.Timezone,
		"cycle_length", conf.Cycle.Length,
		"cycle_labelled", conf.Cycle.LabelledDays,
	)
	return conf, nil
}

func runGenerate(flags *flagConfig) error {
	conf, err := loadConfig(flags)
	if err != nil {
		return err
	}
	_, err = pipeline.Run(conf)
	return err
}
