package campaign

import "strings"

// NoColumn marks a column that was not found in the header.
const NoColumn = -1

// pidWindow is how many columns, starting at the hub label itself, are
// searched for the hub's PID columns.
const pidWindow = 4

const (
	labelFocusCategory = "focus category/grid"
	labelCampaignName  = "campaign name"
)

// HubBlock is the column group detected for one hub occurrence in the first header row.
type HubBlock struct {
	Hub        string
	PID1Column int
	PID2Column int
}

// HasPIDs reports whether at least one PID column was found for the block.
func (b HubBlock) HasPIDs() bool {
	return b.PID1Column != NoColumn || b.PID2Column != NoColumn
}

// Layout is the schema inferred from the two header rows.
type Layout struct {
	Blocks         []HubBlock
	FocusColumn    int
	CampaignColumn int
}

// AnalyzeHeader locates anchor columns in the header rows, then resolves each
// hub's PID columns inside a bounded window to the right of the anchor.
func AnalyzeHeader(hubRow, labelRow []string, hubs []string) Layout {
	known := make(map[string]struct{}, len(hubs))
	for _, hub := range hubs {
		known[hub] = struct{}{}
	}

	labels := make([]string, len(labelRow))
	for i, label := range labelRow {
		labels[i] = normalizeLabel(label)
	}

	layout := Layout{
		Blocks:         make([]HubBlock, 0, len(hubs)),
		FocusColumn:    NoColumn,
		CampaignColumn: NoColumn,
	}
	for col, label := range labels {
		switch label {
		case labelFocusCategory:
			layout.FocusColumn = col
		case labelCampaignName:
			layout.CampaignColumn = col
		}
	}

	for col, cell := range hubRow {
		hub := strings.TrimSpace(cell)
		if _, ok := known[hub]; !ok {
			continue
		}
		layout.Blocks = append(layout.Blocks, resolveBlock(hub, col, labels))
	}

	return layout
}

func resolveBlock(hub string, anchor int, labels []string) HubBlock {
	block := HubBlock{Hub: hub, PID1Column: NoColumn, PID2Column: NoColumn}
	for col := anchor; col < anchor+pidWindow && col < len(labels); col++ {
		switch labels[col] {
		case "pid1", "pid":
			if block.PID1Column == NoColumn {
				block.PID1Column = col
			}
		case "pid2":
			if block.PID2Column == NoColumn {
				block.PID2Column = col
			}
		}
	}
	return block
}

func normalizeLabel(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}
