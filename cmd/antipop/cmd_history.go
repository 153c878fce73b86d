package main

import (
	"fmt"
	"strconv"

	"antipop/cmd/antipop/ui"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd browses persisted tutor transcripts
var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List saved tutor sessions or show one transcript",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum sessions or turns to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("transcript store is disabled (store.enabled: false)")
	}
	defer st.Close()

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		sessions, err := st.Sessions(historyLimit)
		if err != nil {
			return err
		}
		tbl := ui.NewTable("", "session", "turns", "first", "last").AlignRight(1)
		for _, s := range sessions {
			tbl.AddRow(s.SessionID, strconv.Itoa(s.Turns), s.FirstAt.Format("2006-01-02 15:04"), s.LastAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprint(out, tbl.View(styles))
		fmt.Fprintf(out, "Total: %d sessions\n", len(sessions))
		return nil
	}

	turns, err := st.History(args[0], historyLimit)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		return fmt.Errorf("no transcript for session %q", args[0])
	}
	for _, t := range turns {
		fmt.Fprintf(out, "%s\n", styles.Muted.Render(fmt.Sprintf("#%d  %s", t.Turn, t.CreatedAt.Format("2006-01-02 15:04:05"))))
		fmt.Fprintf(out, "%s %s\n", styles.Prompt.Render("You:"), t.Question)
		fmt.Fprintf(out, "%s %s\n\n", styles.Info.Render("Tutor:"), t.Reply)
	}
	return nil
}
