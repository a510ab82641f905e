package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rpggio/hrl-explorer/internal/explore"
	"github.com/spf13/cobra"
)

// ImportCmd replaces the stored catalog with a YAML or JSON file.
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a project catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.ImportCatalog(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Imported %d projects\n", color.New(color.FgHiGreen).Sprint("✓"), result.Imported)
			if result.GeneratedIDCount > 0 {
				fmt.Fprintf(out, "  %d projects were given generated ids\n", result.GeneratedIDCount)
			}
			for _, id := range result.InvalidGeometry {
				fmt.Fprintf(out, "%s %s has no usable geometry and will not appear on the map\n", color.New(color.FgYellow).Sprint("⚠"), id)
			}
			return nil
		},
	}
}

// ListCmd renders the project list, optionally with a selection.
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the project list",
		RunE: func(cmd *cobra.Command, args []string) error {
			selectID, _ := cmd.Flags().GetString("select")
			scroll, _ := cmd.Flags().GetFloat64("scroll")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			explorer, err := a.NewExplorer(cmd.Context())
			if err != nil {
				return err
			}
			sess, _ := explorer.Open("cli")
			if scroll > 0 {
				sess.ScrollList(scroll)
			}
			if selectID != "" && !sess.ClickCard(selectID) {
				return fmt.Errorf("project %q not found", selectID)
			}

			printList(cmd, sess.State().List)
			return nil
		},
	}
	cmd.Flags().StringP("select", "s", "", "Project ID to select")
	cmd.Flags().Float64("scroll", 0, "Initial list scroll offset in pixels")
	return cmd
}

func printList(cmd *cobra.Command, list explore.ListRender) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.New(color.Bold).Sprint(list.Title))

	w := newTabWriter(out)
	for _, card := range list.Cards {
		marker := " "
		if card.Selected {
			marker = color.New(color.FgHiMagenta).Sprint("▶")
		}
		year := ""
		if card.Year > 0 {
			year = fmt.Sprint(card.Year)
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\t%s\n",
			marker, card.ID, card.Name, statusChip(card.Status), year, card.TributarySystem, card.Area)
	}
	_ = w.Flush()

	if ev := list.LastScroll; ev != nil && ev.Moved() {
		fmt.Fprintf(out, "scrolled %s into view (%.0fpx → %.0fpx)\n", ev.ProjectID, ev.From, ev.To)
	}
}

// ShowCmd selects one project and prints its card and the map camera.
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a project and where the map moves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			explorer, err := a.NewExplorer(cmd.Context())
			if err != nil {
				return err
			}
			sess, _ := explorer.Open("cli")
			if !sess.Select(args[0]) {
				return fmt.Errorf("project %q not found", args[0])
			}
			state := sess.State()
			p := state.Selection

			out := cmd.OutOrStdout()
			style := explore.ProjectStyle(*p)
			fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint(p.Name), statusChip(style))

			var card explore.Card
			for _, c := range state.List.Cards {
				if c.ID == p.ID {
					card = c
				}
			}
			w := newTabWriter(out)
			fmt.Fprintf(w, "ID:\t%s\n", p.ID)
			fmt.Fprintf(w, "Year:\t%d\n", p.Year)
			fmt.Fprintf(w, "Tributary:\t%s\n", p.TributarySystem)
			fmt.Fprintf(w, "Habitat:\t%s\n", p.HabitatType)
			fmt.Fprintf(w, "Area:\t%s\n", card.Area)
			if len(p.TargetSpecies) > 0 {
				fmt.Fprintf(w, "Species:\t%v\n", p.TargetSpecies)
			}
			if p.ImplementingEntity != "" {
				fmt.Fprintf(w, "Entity:\t%s\n", p.ImplementingEntity)
			}
			_ = w.Flush()
			if card.Description != "" {
				fmt.Fprintf(out, "\n%s\n", card.Description)
			}

			camera := state.Map.Camera
			fmt.Fprintln(out)
			if state.Map.CameraState.Mode == explore.CameraFitted {
				fmt.Fprintf(out, "Map: centered on %.4f, %.4f at zoom %.0f\n", camera.Center.Lat, camera.Center.Lng, camera.Zoom)
			} else {
				fmt.Fprintf(out, "Map: %s has no usable geometry; camera unchanged\n", color.New(color.FgYellow).Sprint(p.ID))
			}
			return nil
		},
	}
}

// LegendCmd prints the status color key.
func LegendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "legend",
		Short: "Show the map legend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := newTabWriter(cmd.OutOrStdout())
			for _, entry := range explore.Legend() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", toneColor(entry.Tone).Sprint("●"), entry.Label, entry.Color)
			}
			return w.Flush()
		},
	}
}
