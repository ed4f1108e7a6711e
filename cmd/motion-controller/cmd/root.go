package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/motion-controller/internal/config"
	"github.com/oshokin/motion-controller/internal/service/client"
	"github.com/oshokin/motion-controller/internal/service/controller"
	"github.com/oshokin/motion-controller/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// hardware overrides the configured device backend.
	hardware string
	// bridgeAddress overrides the configured bridge address.
	bridgeAddress string

	// rootCmd runs the controller.
	rootCmd = &cobra.Command{
		Use:   "motion-controller",
		Short: "Run the motion-activated mechanism controller.",
		Long: `Watches the PIR sensor and, on motion, measures the distance with the
ultrasonic rangefinder. Close objects start the buzzer and then the motor;
far objects only show their distance. An infrared remote (through lircd) or
the gRPC bridge can pause the mechanism, resume it, or run the motor
continuously.

Use --hardware simulator to run without a board.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return controller.Run(ctx, &controller.Options{
				ConfigPath:    configPath,
				Hardware:      hardware,
				BridgeAddress: bridgeAddress,
			})
		},
	}

	// pressCmd sends a virtual remote button.
	pressCmd = &cobra.Command{
		Use:   "press <pause|start|stop|0xCODE>",
		Short: "Press a remote button through the bridge.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Press(cmd.Context(), clientOptions(), args[0])
		},
	}

	// statusCmd prints the controller status.
	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the controller status as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return client.Status(cmd.Context(), clientOptions(), cmd.OutOrStdout())
		},
	}
)

func clientOptions() *client.Options {
	return &client.Options{
		ConfigPath:    configPath,
		BridgeAddress: bridgeAddress,
	}
}

// Execute runs the motion-controller CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&bridgeAddress, "bridge", "b", "", "bridge address (overrides config)")
	rootCmd.Flags().
		StringVar(&hardware, "hardware", "", "device backend: gpio or simulator (overrides config)")

	rootCmd.AddCommand(pressCmd, statusCmd)
}
