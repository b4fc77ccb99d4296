package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/provider"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	var item itemFlags
	var opts provider.RefreshOptions
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "refresh <path>",
		Short: "Refresh metadata and missing images for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := item.resolve(args[0])
			if err != nil {
				return err
			}
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			opts.Language = strings.TrimSpace(opts.Language)
			if err := eng.manager.RefreshMetadata(cmd.Context(), target, opts); err != nil {
				return fmt.Errorf("refresh %s: %w", target.Path(), err)
			}
			if jsonOutput {
				return writeJSON(cmd, target.Meta)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Refreshed %s (%s)\n", target.Name(), target.Type())
			if title := strings.TrimSpace(target.Meta.Title); title != "" {
				fmt.Fprintf(out, "Title: %s\n", title)
			}
			if target.Meta.ProductionYear > 0 {
				fmt.Fprintf(out, "Year: %d\n", target.Meta.ProductionYear)
			}
			return nil
		},
	}

	item.register(cmd)
	cmd.Flags().BoolVar(&opts.ReplaceAllMetadata, "replace-all", false, "Discard existing metadata before refreshing")
	cmd.Flags().BoolVar(&opts.ReplaceAllImages, "replace-images", false, "Download images even when local ones exist")
	cmd.Flags().BoolVar(&opts.SkipImages, "no-images", false, "Skip image downloads")
	cmd.Flags().StringVar(&opts.Language, "lang", "", "Metadata language for remote providers")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the refreshed metadata as JSON")
	return cmd
}
