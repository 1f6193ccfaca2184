package report

import (
	"encoding/csv"
	"io"

	"fintrack/models"
)

// WriteCSV 带 BOM，方便 Excel 直接打开
func WriteCSV(w io.Writer, txs []models.Transaction) error {
	if _, err := io.WriteString(w, "\xEF\xBB\xBF"); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return err
	}
	for _, tx := range txs {
		if err := writer.Write(record(tx)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
