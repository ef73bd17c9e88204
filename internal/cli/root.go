// Package cli provides the command-line interface for droidlink.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/droidlink/droidlink/internal/adb"
	"github.com/droidlink/droidlink/internal/config"
	"github.com/droidlink/droidlink/internal/device"
	"github.com/droidlink/droidlink/internal/events"
	"github.com/droidlink/droidlink/internal/logging"
	"github.com/droidlink/droidlink/internal/remotefs"
	"github.com/droidlink/droidlink/internal/services"
	"github.com/droidlink/droidlink/internal/transfer"
	"github.com/droidlink/droidlink/internal/version"
)

var (
	// Global flags
	cfgFile    string
	deviceFlag string
	verbose    bool

	// Shared state initialized in PersistentPreRunE
	logger *logging.Logger
	cfg    *config.Config
	runner *adb.Runner

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "droidlink",
		Short: "DroidLink - browse and transfer files on Android devices via adb",
		Long: `DroidLink ` + version.Version + ` - Built: ` + version.BuildTime + `
Remote filesystem bridge for Android devices.

Browse device storage, pull and push files with progress, manage
directories, and pair devices over Wi-Fi. All operations go through the
adb client binary; install platform-tools or point --config at an adb
path override.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = logging.NewDefaultCLILogger()
			if verbose {
				logging.SetGlobalLevel(-1) // zerolog.DebugLevel
			}

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path, err := adb.Locate(cfg.ADBPath)
			if err != nil {
				return fmt.Errorf("adb binary not found: install platform-tools or set adb path in %s", configHint())
			}
			runner = adb.NewRunner(path, logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&deviceFlag, "device", "s", "", "Device serial (default: the single connected device)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newDevicesCmd())
	rootCmd.AddCommand(newNameCmd())
	rootCmd.AddCommand(newPairCmd())
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newMDNSCmd())
	rootCmd.AddCommand(newRestartServerCmd())

	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newReadlinkCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newMkdirCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newMvCmd())
	rootCmd.AddCommand(newCpCmd())
	rootCmd.AddCommand(newRmCmd())

	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPushCmd())
}

// GetContext returns the global CLI context with signal handling.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

func newRegistry() *device.Registry {
	return device.NewRegistry(runner, nil, logger)
}

// activeDevice resolves the device to operate on: the -s flag if given,
// otherwise the single usable connected device.
func activeDevice(ctx context.Context) (string, error) {
	reg := newRegistry()
	devices := reg.List(ctx)

	if deviceFlag != "" {
		for _, d := range devices {
			if d.ID == deviceFlag {
				if !d.Usable() {
					return "", fmt.Errorf("device %s is %s", d.ID, d.Status)
				}
				return d.ID, nil
			}
		}
		return "", fmt.Errorf("device %s not found; run `droidlink devices`", deviceFlag)
	}

	var usable []device.Device
	for _, d := range devices {
		if d.Usable() {
			usable = append(usable, d)
		}
	}
	switch len(usable) {
	case 0:
		return "", fmt.Errorf("no usable device connected; run `droidlink devices`")
	case 1:
		return usable[0].ID, nil
	default:
		return "", fmt.Errorf("%d devices connected; select one with -s", len(usable))
	}
}

// newSessionFor builds the client, engine, and facade for one device.
func newSessionFor(deviceID string) (*remotefs.Client, *transfer.Engine, *services.FileService) {
	bus := events.NewEventBus(0)
	client := remotefs.NewClient(runner, deviceID, logger)
	engine := transfer.NewEngine(runner, client, deviceID, transfer.NewQueue(bus), logger)
	engine.Timeout = cfg.TransferTimeout()

	session := services.NewSession(deviceID, cfg.DefaultRemotePath, cfg.LocalStartPath())
	svc := services.NewFileService(session, client, engine, bus, logger, cfg)
	return client, engine, svc
}

func configHint() string {
	if path, err := config.DefaultConfigPath(); err == nil {
		return path
	}
	return "the droidlink config file"
}
