package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(r int) []int {
	return t.entries[r*t.colCount : (r+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
	_ Compressor = &LayeredTable{}
)

// UniqueEntriesTable shares identical rows. RowNums maps an original row to a row of UniqueEntries.
type UniqueEntriesTable struct {
	UniqueEntries    []int `json:"unique_entries"`
	RowNums          []int `json:"row_nums"`
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
}

func NewUniqueEntriesTable() *UniqueEntriesTable {
	return &UniqueEntriesTable{}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	key2RowNum := map[string]int{}
	for r := 0; r < orig.rowCount; r++ {
		row := orig.row(r)
		key := rowKey(row)
		rowNum, ok := key2RowNum[key]
		if !ok {
			rowNum = len(key2RowNum)
			key2RowNum[key] = rowNum
			uniqueEntries = append(uniqueEntries, row...)
		}
		rowNums[r] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*2)
	for _, v := range row {
		buf = binary.AppendVarint(buf, int64(v))
	}
	return string(buf)
}

// ForbiddenValue marks a cell of Bounds that belongs to no row.
const ForbiddenValue = -1

// RowDisplacementTable overlays the non-empty cells of all rows into one array. A cell (row, col)
// lives at Entries[RowDisplacement[row]+col] when Bounds at the same position equals row.
type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type denseRow struct {
	num  int
	cols []int
}

func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]*denseRow, orig.rowCount)
	for r := 0; r < orig.rowCount; r++ {
		dr := &denseRow{
			num: r,
		}
		for c, v := range orig.row(r) {
			if v != tab.EmptyValue {
				dr.cols = append(dr.cols, c)
			}
		}
		rows[r] = dr
	}
	// Placing the densest rows first leaves the sparse ones to fill the gaps.
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	size := len(orig.entries) + orig.colCount
	entries := make([]int, size)
	bounds := make([]int, size)
	for i := range entries {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, orig.rowCount)
	bottom := orig.colCount

	fits := func(d int, cols []int) bool {
		for _, c := range cols {
			if bounds[d+c] != ForbiddenValue {
				return false
			}
		}
		return true
	}

	d := 0
	for _, dr := range rows {
		if len(dr.cols) == 0 {
			continue
		}
		for !fits(d, dr.cols) {
			d++
		}
		rowDisplacement[dr.num] = d
		for _, c := range dr.cols {
			entries[d+c] = orig.entries[dr.num*orig.colCount+c]
			bounds[d+c] = dr.num
		}
		if d+orig.colCount > bottom {
			bottom = d + orig.colCount
		}
		d++
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:bottom]
	tab.Bounds = bounds[:bottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

// LayeredTable applies the unique-entries compression first and then compresses the unique rows
// with the row displacement.
type LayeredTable struct {
	RowNums          []int                 `json:"row_nums"`
	UniqueEntries    *RowDisplacementTable `json:"unique_entries"`
	OriginalRowCount int                   `json:"original_row_count"`
	OriginalColCount int                   `json:"original_col_count"`
}

func NewLayeredTable(emptyValue int) *LayeredTable {
	return &LayeredTable{
		UniqueEntries: NewRowDisplacementTable(emptyValue),
	}
}

func (tab *LayeredTable) Compress(orig *OriginalTable) error {
	ueTab := NewUniqueEntriesTable()
	err := ueTab.Compress(orig)
	if err != nil {
		return err
	}
	uniq, err := NewOriginalTable(ueTab.UniqueEntries, ueTab.OriginalColCount)
	if err != nil {
		return err
	}
	err = tab.UniqueEntries.Compress(uniq)
	if err != nil {
		return err
	}

	tab.RowNums = ueTab.RowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func (tab *LayeredTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.UniqueEntries.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries.Lookup(tab.RowNums[row], col)
}

func (tab *LayeredTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}
