package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/dispatch"
	"curator/internal/media"
)

func newPluginsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Show which plugins apply to each item type",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			summaries := eng.manager.GetAllMetadataPlugins(cmd.Context())
			if filter := strings.TrimSpace(typeFilter); filter != "" {
				kind, err := media.ParseItemType(filter)
				if err != nil {
					return err
				}
				summaries = filterSummaries(summaries, kind)
			}
			if jsonOutput {
				return writeJSON(cmd, summaries)
			}
			out := cmd.OutOrStdout()
			for i, summary := range summaries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, renderSummary(out, summary))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "Only show this item type")
	return cmd
}

func filterSummaries(summaries []dispatch.MetadataPluginSummary, kind media.ItemType) []dispatch.MetadataPluginSummary {
	out := make([]dispatch.MetadataPluginSummary, 0, 1)
	for _, s := range summaries {
		if s.ItemType == kind {
			out = append(out, s)
		}
	}
	return out
}

func renderSummary(out io.Writer, summary dispatch.MetadataPluginSummary) string {
	rows := make([][]string, 0, len(summary.Plugins))
	for _, p := range summary.Plugins {
		rows = append(rows, []string{p.Name, string(p.Type)})
	}
	if len(rows) == 0 {
		rows = append(rows, []string{"(none)", ""})
	}
	title := string(summary.ItemType)
	if len(summary.SupportedImageTypes) > 0 {
		kinds := make([]string, 0, len(summary.SupportedImageTypes))
		for _, t := range summary.SupportedImageTypes {
			kinds = append(kinds, string(t))
		}
		title = fmt.Sprintf("%s (images: %s)", title, strings.Join(kinds, ", "))
	}
	return renderTable(out, tableView{
		Title:   title,
		Headers: []string{"Plugin", "Type"},
		Rows:    rows,
	})
}
