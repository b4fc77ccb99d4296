package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/media"
)

func newOptionsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "options <item-type>",
		Short: "Show the effective metadata options for an item type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := media.ParseItemType(args[0])
			if err != nil {
				return err
			}
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			options := eng.manager.GetMetadataOptions(media.Placeholder(kind))
			if jsonOutput {
				return writeJSON(cmd, options)
			}
			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Options entry", options.ItemType},
				{"Internet providers", yesNo(eng.cfg.Providers.EnableInternetProviders)},
				{"Image fetcher order", joinOrNone(options.ImageFetcherOrder)},
				{"Disabled image fetchers", joinOrNone(options.DisabledImageFetchers)},
				{"Local reader order", joinOrNone(options.LocalMetadataReaderOrder)},
				{"Metadata fetcher order", joinOrNone(options.MetadataFetcherOrder)},
				{"Disabled metadata fetchers", joinOrNone(options.DisabledMetadataFetchers)},
				{"Disabled metadata savers", joinOrNone(options.DisabledMetadataSavers)},
			}
			fmt.Fprintln(out, renderTable(out, tableView{
				Title:   string(kind),
				Headers: []string{"Setting", "Value"},
				Rows:    rows,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
