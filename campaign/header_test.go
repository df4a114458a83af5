package campaign

import "testing"

func TestAnalyzeHeader_FindsHubBlocksAndAnchors(t *testing.T) {
	t.Parallel()

	hubRow := []string{"", "", "", "", "", " NCR ", "", "", "BLR", "", "XYZ", ""}
	labelRow := []string{"Category", "Campaign Name", "Asset Detail", "Focus Category/Grid", "Notes", "PID1", "Name1", "PID2", "PID", "Name", "PID1", "PID2"}

	layout := AnalyzeHeader(hubRow, labelRow, DefaultHubs)

	if layout.CampaignColumn != 1 {
		t.Fatalf("expected campaign column 1, got %d", layout.CampaignColumn)
	}
	if layout.FocusColumn != 3 {
		t.Fatalf("expected focus column 3, got %d", layout.FocusColumn)
	}
	if len(layout.Blocks) != 2 {
		t.Fatalf("expected 2 hub blocks, got %d: %+v", len(layout.Blocks), layout.Blocks)
	}

	ncr := layout.Blocks[0]
	if ncr.Hub != "NCR" || ncr.PID1Column != 5 || ncr.PID2Column != 7 {
		t.Fatalf("unexpected NCR block: %+v", ncr)
	}
	blr := layout.Blocks[1]
	if blr.Hub != "BLR" || blr.PID1Column != 8 || blr.PID2Column != 11 {
		t.Fatalf("unexpected BLR block: %+v", blr)
	}
}

func TestAnalyzeHeader_UnrecognizedHubIsIgnored(t *testing.T) {
	t.Parallel()

	hubRow := []string{"Delhi", "", "ncr"}
	labelRow := []string{"PID1", "PID2", "PID1"}

	layout := AnalyzeHeader(hubRow, labelRow, DefaultHubs)
	if len(layout.Blocks) != 0 {
		t.Fatalf("expected no hub blocks, got %+v", layout.Blocks)
	}
}

func TestAnalyzeHeader_DuplicateHubsProduceSeparateBlocks(t *testing.T) {
	t.Parallel()

	hubRow := []string{"MUM", "", "MUM", ""}
	labelRow := []string{"PID1", "PID2", "pid", "pid2"}

	layout := AnalyzeHeader(hubRow, labelRow, DefaultHubs)
	if len(layout.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(layout.Blocks))
	}
	if layout.Blocks[0].PID1Column != 0 || layout.Blocks[0].PID2Column != 1 {
		t.Fatalf("unexpected first block: %+v", layout.Blocks[0])
	}
	if layout.Blocks[1].PID1Column != 2 || layout.Blocks[1].PID2Column != 3 {
		t.Fatalf("unexpected second block: %+v", layout.Blocks[1])
	}
}

func TestAnalyzeHeader_WindowIsBoundedAndFirstMatchWins(t *testing.T) {
	t.Parallel()

	hubRow := []string{"HYD", "", "", "", ""}
	labelRow := []string{"Name", "PID", "PID1", "Name2", "PID2"}

	layout := AnalyzeHeader(hubRow, labelRow, DefaultHubs)
	block := layout.Blocks[0]
	if block.PID1Column != 1 {
		t.Fatalf("expected first pid column 1, got %d", block.PID1Column)
	}
	if block.PID2Column != NoColumn {
		t.Fatalf("expected PID2 outside window to be ignored, got %d", block.PID2Column)
	}
}

func TestAnalyzeHeader_BlockWithoutPIDsIsRetained(t *testing.T) {
	t.Parallel()

	hubRow := []string{"", "", "CHN"}
	labelRow := []string{"Campaign Name", "campaign name"}

	layout := AnalyzeHeader(hubRow, labelRow, DefaultHubs)
	if len(layout.Blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(layout.Blocks))
	}
	if layout.Blocks[0].HasPIDs() {
		t.Fatalf("expected block without PID columns, got %+v", layout.Blocks[0])
	}
	if layout.CampaignColumn != 1 {
		t.Fatalf("expected last campaign label to win, got %d", layout.CampaignColumn)
	}
	if layout.FocusColumn != NoColumn {
		t.Fatalf("expected no focus column, got %d", layout.FocusColumn)
	}
}
