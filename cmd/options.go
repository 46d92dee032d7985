package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"penalty/internal/config"
	"penalty/internal/datemath"
	"penalty/internal/logger"
	"penalty/internal/penalty"
	"penalty/internal/worksheet"
)

// addTermFlags registers the flags shared by every command that opens a
// worksheet.
func addTermFlags(cmd *cobra.Command) {
	cmd.Flags().String("term", "", "Payment term in days (default: PAYMENT_TERM)")
	cmd.Flags().String("rate", "", "Penalty rate: 0.15%, 0.10% or statutory-395 (default: PENALTY_RATE)")
	cmd.Flags().String("as-of", "", "Evaluation date (format: YYYY-MM-DD, default: today)")
	cmd.Flags().Bool("increase-sum", false, "Add the 10% surcharge line")
}

// currentConfig returns the loaded configuration or the built-in defaults.
func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.Defaults()
}

// newWorksheet opens a worksheet session with config defaults overridden by
// the command's flags.
func newWorksheet(cmd *cobra.Command, component string) (*worksheet.Worksheet, error) {
	cfg := currentConfig()

	term := cfg.PaymentTerm
	if cmd.Flags().Changed("term") {
		term, _ = cmd.Flags().GetString("term")
	}
	rate := cfg.PenaltyRate
	if cmd.Flags().Changed("rate") {
		rate, _ = cmd.Flags().GetString("rate")
	}
	asOfStr, _ := cmd.Flags().GetString("as-of")
	increaseSum, _ := cmd.Flags().GetBool("increase-sum")

	asOf := datemath.Today()
	if asOfStr != "" {
		parsed, err := datemath.Parse(asOfStr)
		if err != nil {
			return nil, fmt.Errorf("invalid evaluation date. Use YYYY-MM-DD: %w", err)
		}
		asOf = parsed
	}

	engine := penalty.NewEngine(cfg.GetPolicy())
	if _, ok := engine.Policy().Resolve(rate); !ok {
		return nil, fmt.Errorf("unknown penalty rate %q. Use one of: %v", rate, penalty.Selectors)
	}

	sessionID := uuid.New().String()
	log := logger.WithSession(component, sessionID)
	log.Info().
		Str("payment_term", term).
		Str("penalty_rate", rate).
		Str("evaluation_date", asOf.Format(time.DateOnly)).
		Bool("increase_sum", increaseSum).
		Msg("Worksheet session started")

	ws := worksheet.New(engine,
		worksheet.WithLogger(log),
		worksheet.WithPaymentTerm(term),
		worksheet.WithPenaltyRate(rate),
		worksheet.WithEvaluationDate(asOf),
	)
	if increaseSum {
		ws.SetIncreaseSum(true)
	}
	return ws, nil
}
