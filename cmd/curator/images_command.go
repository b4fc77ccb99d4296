package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/dispatch"
	"curator/internal/language"
	"curator/internal/media"
)

func newImagesCommand(ctx *commandContext) *cobra.Command {
	var item itemFlags
	var query dispatch.RemoteImageQuery
	var imageType string
	var listProviders bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "images <path>",
		Short: "List remote images available for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := item.resolve(args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(imageType) != "" {
				parsed, err := media.ParseImageType(imageType)
				if err != nil {
					return err
				}
				query.ImageType = parsed
			}
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if listProviders {
				infos := eng.manager.GetRemoteImageProviderInfo(cmd.Context(), target)
				if jsonOutput {
					if infos == nil {
						infos = []media.ImageProviderInfo{}
					}
					return writeJSON(cmd, infos)
				}
				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					kinds := make([]string, 0, len(info.SupportedImages))
					for _, t := range info.SupportedImages {
						kinds = append(kinds, string(t))
					}
					rows = append(rows, []string{info.Name, joinOrNone(kinds)})
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No remote image providers apply to this item")
					return nil
				}
				fmt.Fprintln(out, renderTable(out, tableView{
					Headers: []string{"Provider", "Image Types"},
					Rows:    rows,
				}))
				return nil
			}

			images, err := eng.manager.GetAvailableRemoteImages(cmd.Context(), target, query)
			if err != nil {
				return err
			}
			if jsonOutput {
				if images == nil {
					images = []media.RemoteImageInfo{}
				}
				return writeJSON(cmd, images)
			}
			if len(images) == 0 {
				fmt.Fprintln(out, "No remote images found")
				return nil
			}
			rows := make([][]string, 0, len(images))
			for _, img := range images {
				rows = append(rows, []string{
					img.ProviderName,
					string(img.Type),
					languageLabel(img.Language),
					imageSize(img),
					formatRating(img.CommunityRating),
					img.URL,
				})
			}
			fmt.Fprintln(out, renderTable(out, tableView{
				Headers: []string{"Provider", "Type", "Language", "Size", "Rating", "URL"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			}))
			return nil
		},
	}

	item.register(cmd)
	cmd.Flags().StringVar(&query.ProviderName, "provider", "", "Only query this provider")
	cmd.Flags().StringVar(&imageType, "image-type", "", "Only return this image type (Primary, Backdrop, ...)")
	cmd.Flags().StringVar(&query.Language, "lang", "", "Filter by this language instead of the item preference")
	cmd.Flags().BoolVar(&query.IncludeAllLanguages, "all-languages", false, "Disable language filtering")
	cmd.Flags().BoolVar(&query.IncludeDisabledProviders, "include-disabled", false, "Query disabled and internet providers regardless of configuration")
	cmd.Flags().BoolVar(&listProviders, "providers", false, "List applicable remote image providers instead of images")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func languageLabel(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "-"
	}
	return language.DisplayName(lang)
}

func imageSize(img media.RemoteImageInfo) string {
	if img.Width <= 0 || img.Height <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}

func formatRating(rating float64) string {
	if rating <= 0 {
		return "-"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}
