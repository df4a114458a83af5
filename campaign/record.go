package campaign

// Output column names shared by every campaign tab.
const (
	ColumnHub           = "Hub"
	ColumnFocusCategory = "Focus Category/Grid"
	ColumnAssetDetail   = "Asset Detail"
	ColumnPID1          = "PID1"
	ColumnPID2          = "PID2"
	ColumnImg1          = "Img1"
	ColumnImg2          = "Img2"

	ColumnPID = "PID"
	ColumnImg = "Img"
)

// ProductRecord is one hub block's contribution for one data row.
// A zero PID1 or PID2 means the identifier is absent.
type ProductRecord struct {
	Hub           string
	FocusCategory string
	AssetDetail   string
	PID1          int64
	PID2          int64
	Img1URL       string
	Img2URL       string
}

// Columns returns the header of a campaign tab.
func (ProductRecord) Columns() []string {
	return []string{ColumnHub, ColumnFocusCategory, ColumnAssetDetail, ColumnPID1, ColumnPID2, ColumnImg1, ColumnImg2}
}

// Values returns the record's cells in Columns order. Absent identifiers are empty strings.
func (r ProductRecord) Values() []any {
	return []any{r.Hub, r.FocusCategory, r.AssetDetail, pidValue(r.PID1), pidValue(r.PID2), r.Img1URL, r.Img2URL}
}

// ProductImage is one row of the all-products tab.
type ProductImage struct {
	PID    int64
	ImgURL string
}

func (ProductImage) Columns() []string {
	return []string{ColumnPID, ColumnImg}
}

func (p ProductImage) Values() []any {
	return []any{p.PID, p.ImgURL}
}

// Tab is a campaign tab: a sanitized name and its ordered records.
type Tab struct {
	Name    string
	Records []ProductRecord
}

// AllProductsTab lists every distinct product id seen across campaign tabs.
type AllProductsTab struct {
	Name string
	Rows []ProductImage
}

func pidValue(pid int64) any {
	if pid <= 0 {
		return ""
	}
	return pid
}
