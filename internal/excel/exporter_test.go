package excel

import (
	"testing"

	"github.com/example/vocabbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

func TestExportDictionary(t *testing.T) {
	pairs := []models.WordPair{
		{Word: "gato", Translation: "кот"},
		{Word: "perro", Translation: "собака"},
	}

	buf, err := ExportDictionary(pairs)
	if err != nil {
		t.Fatalf("ExportDictionary: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(sheetName, "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "gato" {
		t.Errorf("A2 = %q, want gato", got)
	}

	got, _ = f.GetCellValue(sheetName, "B3")
	if got != "собака" {
		t.Errorf("B3 = %q, want собака", got)
	}
}
