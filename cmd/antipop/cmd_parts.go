package main

import (
	"fmt"

	"antipop/cmd/antipop/ui"
	"antipop/internal/parts"

	"github.com/spf13/cobra"
)

// partsCmd lists the schematic components
var partsCmd = &cobra.Command{
	Use:   "parts [id]",
	Short: "List the circuit components or describe one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParts,
}

func runParts(cmd *cobra.Command, args []string) error {
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		info, ok := parts.Lookup(parts.ID(args[0]))
		if !ok {
			return fmt.Errorf("unknown part %q (known: %v)", args[0], parts.IDs())
		}
		fmt.Fprintln(out, ui.RenderCard(info, true, 72, styles))
		return nil
	}

	tbl := ui.NewTable("", "id", "name", "value", "role")
	for _, p := range parts.Catalog() {
		tbl.AddRow(string(p.ID), p.Name, p.Value, p.Role)
	}
	fmt.Fprint(out, tbl.View(styles))
	return nil
}
