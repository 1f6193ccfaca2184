package report

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 14.0
	pdfRowHeight = 7.0
	pdfTitle     = "Financial Transaction Report"
)

// 表格列宽（mm），合计为 A4 减去左右边距
var pdfColWidths = []float64{26, 32, 38, 30, 56}

// WritePDF 标题、区间、三行汇总，之后是带蓝色表头的表格，换页时重复表头
func WritePDF(w io.Writer, r Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetTitle(pdfTitle, true)
	// 内置字体为 cp1252，需转换 £ € 等符号
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(pdfTitle), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Period: "+r.Period()), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	money := func(s string) string { return tr(r.Currency + s) }
	summary := [][2]string{
		{"Total Income", r.Totals.Income.StringFixed(2)},
		{"Total Expense", r.Totals.Expense.StringFixed(2)},
		{"Net Balance", r.Totals.Net.StringFixed(2)},
	}
	for _, line := range summary {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, tr(line[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, money(line[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	drawHeader := func() {
		pdf.SetFillColor(25, 118, 210)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetDrawColor(180, 180, 180)
		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range Headers {
			pdf.CellFormat(pdfColWidths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	for _, tx := range r.Transactions {
		if pdf.GetY()+pdfRowHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			drawHeader()
		}
		cells := record(tx)
		cells[3] = r.Currency + cells[3]
		for i, value := range cells {
			align := "L"
			if i == 3 {
				align = "R"
			}
			text := fit(pdf, tr(value), pdfColWidths[i]-2)
			pdf.CellFormat(pdfColWidths[i], pdfRowHeight, text, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fit 超出列宽时截断并加省略号，s 已是单字节编码
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > width {
		b = b[:len(b)-1]
	}
	return string(b) + "..."
}
