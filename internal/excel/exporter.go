package excel

import (
	"bytes"
	"fmt"

	"github.com/example/vocabbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Dictionary"

// ExportDictionary builds an .xlsx workbook with the user's word pairs,
// one pair per row with a header row.
func ExportDictionary(pairs []models.WordPair) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", "Spanish")
	f.SetCellValue(sheetName, "B1", "Russian")

	for i, pair := range pairs {
		row := i + 2 // row 1 is the header
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), pair.Word)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), pair.Translation)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %v", err)
	}
	return buf, nil
}
