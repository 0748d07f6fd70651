package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/relaybank/internal/bridges/modbus"
	"github.com/nerrad567/relaybank/internal/infrastructure/config"
	"github.com/nerrad567/relaybank/internal/project"
	"github.com/nerrad567/relaybank/internal/relay"
)

// simulatedPort is the only port offered by --simulate.
const simulatedPort = "sim0"

// rootOptions holds the flags of the root command.
type rootOptions struct {
	ConfigPath string
	Relays     string
	Interface  string
	SlaveID    string
	Headless   bool
	Simulate   bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "relaybank [project-file]",
		Short: "Control a 16-channel Modbus RTU relay board",
		Long: `Control a 16-channel Modbus RTU relay board.

Without --headless a terminal UI is shown. Flags override the values loaded
from the project file.

Examples:
  relaybank bank.json
  relaybank --headless -i /dev/ttyUSB0 -s 1 -r 1010000000000001
  relaybank --simulate`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			proj, err := buildProject(cmd, opts, args)
			if err != nil {
				return err
			}
			if opts.Headless {
				return runHeadless(cmd, cfg, opts, proj)
			}
			return runInteractive(cmd, cfg, opts, proj)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "configuration file (default $RELAYBANK_CONFIG or "+defaultConfigPath+")")
	cmd.Flags().StringVarP(&opts.Relays, "relays", "r", "", "relay string of 16 '0'/'1' characters, relay 1 first")
	cmd.Flags().StringVarP(&opts.Interface, "interface", "i", "", "serial port of the board")
	cmd.Flags().StringVarP(&opts.SlaveID, "slave", "s", "", "Modbus slave id (1-255)")
	cmd.Flags().BoolVar(&opts.Headless, "headless", false, "apply the relay string once and exit")
	cmd.Flags().BoolVar(&opts.Simulate, "simulate", false, "use an in-memory board instead of a serial port")

	cmd.AddCommand(newJournalCommand(opts))

	return cmd
}

// loadConfig loads the explicit --config file, or the default path with
// fallback to built-in defaults when it does not exist.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadOrDefault(getConfigPath())
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// buildProject loads the optional project file and applies flag overrides.
func buildProject(cmd *cobra.Command, opts *rootOptions, args []string) (*project.Project, error) {
	proj := project.New()
	if len(args) == 1 {
		loaded, err := project.Load(args[0])
		if err != nil {
			return nil, err
		}
		proj = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("relays") {
		st, err := project.ParseRelays(opts.Relays)
		if err != nil {
			return nil, err
		}
		proj.State = st
	}
	if flags.Changed("interface") {
		proj.Interface = opts.Interface
	}
	if flags.Changed("slave") {
		id, err := project.ParseSlaveID(opts.SlaveID)
		if err != nil {
			return nil, err
		}
		proj.SlaveID = id
	}
	if opts.Simulate && proj.Interface == "" {
		proj.Interface = simulatedPort
	}
	return proj, nil
}

// newBoard returns the opener and port lister for the selected transport.
func newBoard(cfg *config.Config, opts *rootOptions, slaveID byte) (modbus.Opener, modbus.PortLister) {
	if opts.Simulate {
		sim := modbus.NewSimulator(slaveID, simulatedPort)
		return sim, sim
	}
	opener := modbus.NewRTUOpener(modbus.Settings{
		BaudRate:         cfg.Serial.BaudRate,
		DataBits:         cfg.Serial.DataBits,
		Parity:           cfg.Serial.Parity,
		StopBits:         cfg.Serial.StopBits,
		ConnectTimeout:   cfg.Serial.ConnectTimeout,
		OperationTimeout: cfg.Serial.OperationTimeout,
	})
	return opener, modbus.SystemPorts{}
}

// newDriver builds the relay driver. A configured inter-op delay of zero
// means no pause.
func newDriver(cfg *config.Config, opener modbus.Opener, log relay.Logger) *relay.Driver {
	delay := cfg.Serial.InterOpDelay
	if delay == 0 {
		delay = -1
	}
	return relay.NewDriver(relay.DriverOptions{
		Opener:       opener,
		InterOpDelay: delay,
		Logger:       log,
	})
}
