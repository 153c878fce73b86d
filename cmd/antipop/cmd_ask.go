package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"antipop/internal/logging"
	"antipop/internal/store"
	"antipop/internal/tutor"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	askTicks int
	askPower bool
)

// askCmd asks the tutor one question about a simulated state
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the tutor a question about the circuit",
	Long: `Simulates the circuit to the requested point, then streams the tutor's
answer to stdout. Without an API key the tutor replies with its offline notice.

Example:
  antipop ask --power --ticks 30 "Why is the amp still muted?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askTicks, "ticks", 0, "Ticks to simulate before asking")
	askCmd.Flags().BoolVar(&askPower, "power", false, "Switch power on before simulating")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	if askPower {
		sess.TogglePower()
	}
	snap := sess.Advance(askTicks)
	circuitContext := tutor.CircuitContext(snap.State, snap.Params)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	t := newTutor(ctx, cfg)

	replyCh, err := t.Ask(ctx, question, circuitContext)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var reply strings.Builder
	fallback := false
	for chunk := range replyCh {
		if chunk == tutor.FallbackReply {
			fallback = true
		}
		reply.WriteString(chunk)
		fmt.Fprint(out, chunk)
	}
	fmt.Fprintln(out)
	logger.Debug("Tutor reply complete", zap.Int("chars", reply.Len()), zap.Bool("fallback", fallback))

	st, err := openStore(cfg)
	if err != nil {
		logging.StoreError("Transcript store unavailable: %v", err)
		return nil
	}
	if st == nil {
		return nil
	}
	defer st.Close()
	turn := store.Turn{
		SessionID: sess.ID(),
		Turn:      1,
		Question:  question,
		Context:   circuitContext,
		Reply:     reply.String(),
		Model:     cfg.LLM.Model,
		Fallback:  fallback,
		CreatedAt: time.Now(),
	}
	if err := st.SaveTurn(turn); err != nil {
		logger.Warn("Failed to save transcript", zap.Error(err))
	}
	return nil
}
