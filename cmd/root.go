package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"penalty/internal/config"
	"penalty/internal/logger"
)

var version = "1.0.0"

// appConfig is set by Execute; commands fall back to built-in defaults when
// configuration could not be loaded.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "penalty",
	Short: "Penalty - late-payment penalty calculator for shipment claims",
	Long: `Penalty computes contractual late-payment penalties (неустойка) for a
list of shipments against a buyer.

For every shipment the payment date is derived from the shipment date and
the payment term, overdue days are counted up to the evaluation date and
the penalty is accrued either at a fixed daily percentage (0.15%, 0.10%)
or at the statutory rate of art. 395 of the Civil Code.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("Penalty CLI executed without subcommand")

		_ = cmd.Help()
	},
}

// Execute runs the CLI. It returns the process exit code.
func Execute(cfg *config.Config) int {
	log := logger.WithComponent("cmd")
	appConfig = cfg

	// Cancel running commands on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return 0
}
