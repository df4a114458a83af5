package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"pidformatter/campaign"
	"pidformatter/imagefetch"
	"pidformatter/output"
)

var (
	formatSource  sourceFlags
	formatOutput  string
	formatFormat  string
	formatNoCheck bool
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Split a campaign sheet into per-campaign product tabs",
	Long: `Read a campaign sheet, detect the hub blocks in its two header rows and write
one tab per campaign name and asset detail, followed by an aggregate tab with every
distinct product id and its image URL.

Output format can be selected explicitly via --format or inferred from --output:
- excel (.xlsx): one worksheet per tab; image cells of the aggregate tab are red
  when the URL is empty or does not answer 200 (skip the checks with --no-check)
- csv (any other path): a directory with one <tab>.csv per tab`,
	Example: `
  # Write a workbook, resolving image URLs from a CSV dump
  pidformatter format -i campaign.xlsx --dump products.csv -o formatted.xlsx

  # Read a specific worksheet and skip image reachability checks
  pidformatter format -i campaign.xlsx --sheet "Week 12" --dump products.db -o formatted.xlsx --no-check

  # Write one CSV per tab into ./tabs
  pidformatter format -i campaign.csv --dump products.csv -o ./tabs
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		format := outputFormat(formatFormat, formatOutput)

		result, _, err := processSource(cmd.Context(), cfg, logger, formatSource)
		if err != nil {
			return err
		}

		var reachable map[string]bool
		if format == "excel" && !formatNoCheck {
			client := imagefetch.NewClient(imagefetch.ClientConfig{
				CheckTimeout: cfg.Images.CheckTimeout,
				FetchTimeout: cfg.Images.FetchTimeout,
			})
			reachable = imagefetch.CheckAll(cmd.Context(), client, imageURLs(result.AllProducts), cfg.Images.Concurrency)
			logger.Info("image links checked", "checked", len(reachable), "unreachable", countFalse(reachable))
		}

		writer, err := output.WriterForFormat(format, reachable)
		if err != nil {
			return err
		}
		if err := writer.Write(formatOutput, output.SheetsFromResult(result)); err != nil {
			return err
		}

		fmt.Printf("Format completed. Tabs: %d, Records: %d, Products: %d, Rows dropped: %d, Format: %s, Output: %s\n",
			len(result.Tabs),
			result.Stats.Records,
			len(result.AllProducts.Rows),
			result.Stats.RowsDropped,
			format,
			formatOutput,
		)
		return nil
	},
}

// outputFormat resolves the --format flag, falling back to the output path.
// Workbook extensions name the excel format.
func outputFormat(flagValue, path string) string {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	switch format {
	case "":
		return detectOutputFormat(path)
	case "xlsx", "xlsm":
		return "excel"
	default:
		return format
	}
}

func detectOutputFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}

func imageURLs(tab campaign.AllProductsTab) []string {
	urls := make([]string, 0, len(tab.Rows))
	for _, row := range tab.Rows {
		urls = append(urls, row.ImgURL)
	}
	return urls
}

func countFalse(values map[string]bool) int {
	count := 0
	for _, ok := range values {
		if !ok {
			count++
		}
	}
	return count
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatSource.register(formatCmd)
	formatCmd.Flags().StringVarP(&formatOutput, "output", "o", "", "Output path: .xlsx workbook or directory for CSV files")
	formatCmd.Flags().StringVarP(&formatFormat, "format", "f", "", "Output format: excel|csv (optional, inferred from output extension)")
	formatCmd.Flags().BoolVar(&formatNoCheck, "no-check", false, "Skip HEAD checks of image links when writing Excel")

	_ = formatCmd.MarkFlagRequired("output")
}
