package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pidformatter/imagefetch"
)

var (
	imagesSource  sourceFlags
	imagesOutput  string
	imagesMaxSize int
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Download product images of a campaign into a ZIP of PNG thumbnails",
	Long: `Process a campaign sheet, then download the image of every product in the
aggregate tab that has an image in the product dump. Each image is scaled to fit
the configured maximum size (never enlarged), re-encoded as PNG and stored in a
ZIP archive under the dump's file name with a .png extension.

Failed downloads and undecodable images are skipped and reported.`,
	Example: `
  # Build images.zip from a campaign and a CSV dump
  pidformatter images -i campaign.xlsx --dump products.csv -o images.zip

  # Use larger thumbnails
  pidformatter images -i campaign.xlsx --dump products.db --max-size 1000 -o images.zip
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		result, index, err := processSource(cmd.Context(), cfg, logger, imagesSource)
		if err != nil {
			return err
		}
		if index == nil {
			return errors.New("images need a readable product dump with MB_id and image_src columns (--dump)")
		}

		items := imagefetch.ItemsFromProducts(result.AllProducts.Rows, index)
		client := imagefetch.NewClient(imagefetch.ClientConfig{
			CheckTimeout: cfg.Images.CheckTimeout,
			FetchTimeout: cfg.Images.FetchTimeout,
		})
		images, failures := imagefetch.Collect(cmd.Context(), client, items, cfg.Images.Concurrency)
		for _, failure := range failures {
			logger.Warn("image download failed", "pid", failure.Item.PID, "url", failure.Item.URL, "error", failure.Err)
		}

		maxSize := imagesMaxSize
		if maxSize <= 0 {
			maxSize = cfg.Images.MaxSize
		}

		file, err := os.Create(imagesOutput)
		if err != nil {
			return fmt.Errorf("create archive %s: %w", imagesOutput, err)
		}
		stats, err := imagefetch.WriteArchive(file, images, maxSize)
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close archive %s: %w", imagesOutput, closeErr)
		}
		if err != nil {
			return err
		}
		if stats.Transparent > 0 {
			logger.Info("images with transparency found", "count", stats.Transparent)
		}

		fmt.Printf("Images completed. Products: %d, Downloaded: %d, Failed: %d, Written: %d, Undecodable: %d, Duplicates: %d, Output: %s\n",
			len(items),
			len(images),
			len(failures),
			stats.Written,
			stats.Skipped,
			stats.Duplicates,
			imagesOutput,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesSource.register(imagesCmd)
	imagesCmd.Flags().StringVarP(&imagesOutput, "output", "o", "images.zip", "Output ZIP archive path")
	imagesCmd.Flags().IntVar(&imagesMaxSize, "max-size", 0, "Maximum thumbnail width and height in pixels (default from config images.max_size)")
}
