package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/media"
)

func newSaveCommand(ctx *commandContext) *cobra.Command {
	var item itemFlags
	var kindFlag string
	var title string
	var overview string
	var year int
	var genres []string

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Run the enabled metadata savers for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := item.resolve(args[0])
			if err != nil {
				return err
			}
			kind, err := media.ParseUpdateKind(kindFlag)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				target.Meta.Title = strings.TrimSpace(title)
			}
			if flags.Changed("overview") {
				target.Meta.Overview = strings.TrimSpace(overview)
			}
			if flags.Changed("year") {
				target.Meta.ProductionYear = year
			}
			if flags.Changed("genre") {
				target.Meta.Genres = genres
			}
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			if err := eng.manager.SaveMetadata(cmd.Context(), target, kind); err != nil {
				return fmt.Errorf("save %s: %w", target.Path(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved metadata for %s\n", target.Path())
			return nil
		},
	}

	item.register(cmd)
	cmd.Flags().StringVar(&kindFlag, "kind", "edit", "Update kind (edit, import, download, image)")
	cmd.Flags().StringVar(&title, "title", "", "Set the title before saving")
	cmd.Flags().StringVar(&overview, "overview", "", "Set the overview before saving")
	cmd.Flags().IntVar(&year, "year", 0, "Set the production year before saving")
	cmd.Flags().StringSliceVar(&genres, "genre", nil, "Set genres before saving (repeatable)")
	return cmd
}
