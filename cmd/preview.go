package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"pidformatter/output"
)

var (
	previewSource sourceFlags
	previewTab    string
	previewLimit  int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the tabs a campaign sheet produces without writing files",
	Long: `Process a campaign sheet and print the resulting tabs with their row counts.

With --tab, render the rows of a single tab as a table instead.`,
	Example: `
  # List tabs and row counts
  pidformatter preview -i campaign.xlsx

  # Show the first 20 rows of one tab with image links
  pidformatter preview -i campaign.xlsx --dump products.csv --tab Banner_Diwali --limit 20
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		result, _, err := processSource(cmd.Context(), cfg, logger, previewSource)
		if err != nil {
			return err
		}
		sheets := output.SheetsFromResult(result)

		if strings.TrimSpace(previewTab) == "" {
			fmt.Fprintln(cmd.OutOrStdout(), renderTabSummary(sheets))
			return nil
		}

		sheet, ok := findSheet(sheets, previewTab)
		if !ok {
			return fmt.Errorf("tab %q not found (available: %s)", previewTab, strings.Join(result.TabNames(), ", "))
		}
		rows := sheet.TextRows()
		if previewLimit > 0 && len(rows) > previewLimit {
			rows = rows[:previewLimit]
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(sheet.Header, rows, nil))
		fmt.Fprintf(cmd.OutOrStdout(), "Tab: %s, Rows shown: %d of %d\n", sheet.Name, len(rows), len(sheet.Rows))
		return nil
	},
}

func renderTabSummary(sheets []output.Sheet) string {
	rows := make([][]string, 0, len(sheets))
	for i, sheet := range sheets {
		rows = append(rows, []string{strconv.Itoa(i + 1), sheet.Name, strconv.Itoa(len(sheet.Rows))})
	}
	return renderTable([]string{"#", "Tab", "Rows"}, rows, []columnAlignment{alignRight, alignLeft, alignRight})
}

func findSheet(sheets []output.Sheet, name string) (output.Sheet, bool) {
	for _, sheet := range sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	for _, sheet := range sheets {
		if strings.EqualFold(sheet.Name, name) {
			return sheet, true
		}
	}
	return output.Sheet{}, false
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewSource.register(previewCmd)
	previewCmd.Flags().StringVar(&previewTab, "tab", "", "Render the rows of this tab")
	previewCmd.Flags().IntVar(&previewLimit, "limit", 50, "Maximum rows to render with --tab (0 = all)")
}
