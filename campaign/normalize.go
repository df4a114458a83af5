package campaign

import "strings"

const defaultAssetDetail = "General"

// ForwardFill returns a copy of rows where every blank cell in the first
// columns columns takes the nearest preceding non-blank value of the same
// column. Leading blanks stay blank.
func ForwardFill(rows [][]string, columns int) [][]string {
	out := make([][]string, len(rows))
	last := make([]string, columns)
	for i, row := range rows {
		width := len(row)
		if width < columns {
			width = columns
		}
		filled := make([]string, width)
		copy(filled, row)
		for col := 0; col < columns; col++ {
			if isBlank(filled[col]) {
				filled[col] = last[col]
				continue
			}
			last[col] = filled[col]
		}
		out[i] = filled
	}
	return out
}

// ResolveCampaignNames folds over raw campaign names carrying the most recent
// non-blank value into blank positions.
func ResolveCampaignNames(raw []string) []string {
	resolved := make([]string, len(raw))
	carried := ""
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			resolved[i] = carried
			continue
		}
		carried = name
		resolved[i] = name
	}
	return resolved
}

// normalizedRow is a data row with its derived labels.
type normalizedRow struct {
	cells         []string
	assetDetail   string
	campaignName  string
	focusCategory string
}

// normalizeRows forward-fills the leading columns, resolves asset detail,
// campaign and focus category per row, then drops rows whose asset detail is
// in skip. Campaign carry-forward sees skipped rows too.
func normalizeRows(data [][]string, layout Layout, opts Options) ([]normalizedRow, int) {
	filled := ForwardFill(data, opts.FillColumns)

	rawCampaigns := make([]string, len(filled))
	for i, row := range filled {
		rawCampaigns[i] = cellAt(row, layout.CampaignColumn)
	}
	campaigns := ResolveCampaignNames(rawCampaigns)

	skip := make(map[string]struct{}, len(opts.SkipAssets))
	for _, asset := range opts.SkipAssets {
		skip[strings.ToLower(strings.TrimSpace(asset))] = struct{}{}
	}

	rows := make([]normalizedRow, 0, len(filled))
	dropped := 0
	for i, row := range filled {
		asset := cellAt(row, opts.AssetColumn)
		if asset == "" {
			asset = defaultAssetDetail
		}
		if _, ok := skip[strings.ToLower(asset)]; ok {
			dropped++
			continue
		}
		rows = append(rows, normalizedRow{
			cells:         row,
			assetDetail:   asset,
			campaignName:  campaigns[i],
			focusCategory: cellAt(row, layout.FocusColumn),
		})
	}
	return rows, dropped
}

// cellAt returns the trimmed cell at col, or "" when col is absent or out of range.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
