package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"pidformatter/campaign"
	"pidformatter/config"
	"pidformatter/imageindex"
	"pidformatter/importer"
	"pidformatter/internal/logging"
)

// sourceFlags are the input flags shared by format, preview and images.
type sourceFlags struct {
	input       string
	inputFormat string
	sheet       string
	dump        string
	dumpFormat  string
	dumpTable   string
}

func (s *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "Campaign sheet: local .xlsx/.csv file, Google Sheet link or CSV URL")
	cmd.Flags().StringVar(&s.inputFormat, "input-format", "", "Campaign input format: csv|tsv|excel (optional, inferred from extension)")
	cmd.Flags().StringVar(&s.sheet, "sheet", "", "Worksheet name for Excel inputs (default: first sheet)")
	cmd.Flags().StringVar(&s.dump, "dump", "", "Product dump with MB_id and image_src columns: .csv, .xlsx or SQLite database")
	cmd.Flags().StringVar(&s.dumpFormat, "dump-format", "", "Product dump format: csv|tsv|excel|sqlite (optional, inferred from extension)")
	cmd.Flags().StringVar(&s.dumpTable, "dump-table", importer.DefaultSQLiteTable, "Table name for SQLite product dumps")

	_ = cmd.MarkFlagRequired("input")
}

// loadRuntime validates the active configuration and builds the logger from it.
func loadRuntime(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// processSource reads the campaign and the optional product dump and runs
// the campaign pipeline. Only campaign read and processing failures are fatal.
func processSource(ctx context.Context, cfg *config.Config, logger *slog.Logger, src sourceFlags) (*campaign.Result, *imageindex.Index, error) {
	fetcher := importer.NewFetcher(nil, "", cfg.Images.FetchTimeout)

	table, err := importer.ReadTable(ctx, src.input, importer.Options{
		Format:  src.inputFormat,
		Sheet:   src.sheet,
		Fetcher: fetcher,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read campaign %s: %w", src.input, err)
	}
	logger.Debug("campaign table read", "source", src.input, "rows", len(table))

	index := loadImageIndex(ctx, cfg, logger, src, fetcher)

	var lookup campaign.ImageLookup
	if index != nil {
		lookup = index
	}
	result, err := campaign.Process(table, lookup, cfg.CampaignOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("process campaign %s: %w", src.input, err)
	}

	logStats(logger, result.Stats)
	return result, index, nil
}

func loadImageIndex(ctx context.Context, cfg *config.Config, logger *slog.Logger, src sourceFlags, fetcher *importer.Fetcher) *imageindex.Index {
	if strings.TrimSpace(src.dump) == "" {
		logger.Warn("no product dump given, image links stay empty")
		return nil
	}

	table, err := importer.ReadTable(ctx, src.dump, importer.Options{
		Format:      src.dumpFormat,
		SQLiteTable: src.dumpTable,
		Fetcher:     fetcher,
	})
	if err != nil {
		logger.Warn("product dump unreadable, image links stay empty", "dump", src.dump, "error", err)
		return nil
	}

	index, stats := imageindex.Build(table, cfg.Images.BaseURL)
	if index == nil {
		logger.Warn("product dump lacks required columns, image links stay empty",
			"dump", src.dump,
			"required", []string{imageindex.ColumnID, imageindex.ColumnSource},
		)
		return nil
	}

	logger.Info("image index built",
		"dump", src.dump,
		"products", index.Len(),
		"rows_read", stats.RowsRead,
		"rows_skipped", stats.RowsSkipped,
		"overwritten", stats.Overwritten,
	)
	return index
}

func logStats(logger *slog.Logger, stats campaign.Stats) {
	if !stats.FocusDetected {
		logger.Warn("no focus category column found in header")
	}
	if !stats.NameDetected {
		logger.Warn("no campaign name column found in header")
	}
	if stats.HubBlocks == 0 {
		logger.Warn("no hub blocks found in header")
	}
	if stats.EmptyHubBlocks > 0 {
		logger.Warn("hub blocks without PID columns contribute no records", "count", stats.EmptyHubBlocks)
	}
	for _, name := range stats.ShadowedTabs {
		logger.Warn("campaign tab shares the all-products tab name and was left out", "tab", name)
	}
	logger.Info("campaign processed",
		"hub_blocks", stats.HubBlocks,
		"rows_read", stats.RowsRead,
		"rows_dropped", stats.RowsDropped,
		"records", stats.Records,
		"distinct_pids", stats.DistinctPIDs,
	)
}
