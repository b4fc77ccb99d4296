package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/media"
)

func newFetchImageCommand(ctx *commandContext) *cobra.Command {
	var item itemFlags
	var url string
	var imageType string
	var index int

	cmd := &cobra.Command{
		Use:   "fetch-image <path>",
		Short: "Download an image into an item's folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(url) == "" {
				return errors.New("--url is required")
			}
			kind, err := media.ParseImageType(imageType)
			if err != nil {
				return err
			}
			target, err := item.resolve(args[0])
			if err != nil {
				return err
			}
			eng, err := ctx.ensureEngine()
			if err != nil {
				return err
			}
			if err := eng.manager.SaveImage(cmd.Context(), target, url, nil, kind, index); err != nil {
				return fmt.Errorf("fetch image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s image for %s\n", kind, target.Path())
			return nil
		},
	}

	item.register(cmd)
	cmd.Flags().StringVar(&url, "url", "", "Image URL")
	cmd.Flags().StringVar(&imageType, "image-type", string(media.ImagePrimary), "Image type")
	cmd.Flags().IntVar(&index, "index", 0, "Image index for multi-image types such as Backdrop")
	return cmd
}
