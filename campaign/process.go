// Package campaign reshapes a campaign sheet with a two-row header and
// repeating hub blocks into per-campaign product tabs.
package campaign

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultAllProductsTab is the name of the aggregate product tab.
const DefaultAllProductsTab = "All_PIDs"

// ErrMissingHeader is returned when the table lacks the two header rows.
var ErrMissingHeader = errors.New("campaign table needs two header rows")

// DefaultHubs is the recognized hub set in priority order.
var DefaultHubs = []string{"NCR", "JPR", "AHM", "IND", "MUM", "Pune", "BLR", "HYD", "CHN", "SS"}

// Options tunes how the sheet is interpreted.
type Options struct {
	Hubs           []string
	AssetColumn    int
	FillColumns    int
	SkipAssets     []string
	AllProductsTab string
}

func DefaultOptions() Options {
	return Options{
		Hubs:           append([]string(nil), DefaultHubs...),
		AssetColumn:    2,
		FillColumns:    3,
		SkipAssets:     []string{"atc"},
		AllProductsTab: DefaultAllProductsTab,
	}
}

// Stats summarizes one processing run.
type Stats struct {
	HubBlocks      int
	EmptyHubBlocks int // blocks without any PID column
	RowsRead       int
	RowsDropped    int
	Records        int
	ShadowedTabs   []string
	DistinctPIDs   int
	FocusDetected  bool
	NameDetected   bool
}

// Result is the final tab set: campaign tabs in order of first appearance,
// followed by the all-products tab.
type Result struct {
	Tabs        []Tab
	AllProducts AllProductsTab
	Stats       Stats
}

// TabNames returns every tab name in output order.
func (r *Result) TabNames() []string {
	names := make([]string, 0, len(r.Tabs)+1)
	for _, tab := range r.Tabs {
		names = append(names, tab.Name)
	}
	return append(names, r.AllProducts.Name)
}

// Process runs analyze, normalize+build and sort/aggregate over table.
// Rows 0 and 1 are the header; images may be nil.
func Process(table [][]string, images ImageLookup, opts Options) (*Result, error) {
	if len(table) < 2 {
		return nil, fmt.Errorf("%w: got %d rows", ErrMissingHeader, len(table))
	}
	if opts.AllProductsTab == "" {
		opts.AllProductsTab = DefaultAllProductsTab
	}

	layout := AnalyzeHeader(table[0], table[1], opts.Hubs)
	data := table[2:]
	rows, dropped := normalizeRows(data, layout, opts)
	emissions := emitRecords(rows, layout.Blocks, images)
	tabs, pids := BuildTabs(emissions)

	result := &Result{
		Tabs: make([]Tab, 0, len(tabs)),
		Stats: Stats{
			HubBlocks:     len(layout.Blocks),
			RowsRead:      len(data),
			RowsDropped:   dropped,
			Records:       len(emissions),
			DistinctPIDs:  len(pids),
			FocusDetected: layout.FocusColumn != NoColumn,
			NameDetected:  layout.CampaignColumn != NoColumn,
		},
	}
	for _, block := range layout.Blocks {
		if !block.HasPIDs() {
			result.Stats.EmptyHubBlocks++
		}
	}
	for _, tab := range tabs {
		// The all-products tab replaces a campaign tab of the same name,
		// compared without case as spreadsheet tab names are.
		if strings.EqualFold(tab.Name, opts.AllProductsTab) {
			result.Stats.ShadowedTabs = append(result.Stats.ShadowedTabs, tab.Name)
			continue
		}
		result.Tabs = append(result.Tabs, Tab{Name: tab.Name, Records: SortTab(tab.Records, opts.Hubs)})
	}
	result.AllProducts = BuildAllProducts(opts.AllProductsTab, pids, images)

	return result, nil
}
