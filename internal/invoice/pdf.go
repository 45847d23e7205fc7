package invoice

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/money"
)

// BuildPDF renders a printable invoice with its line-item table.
func BuildPDF(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", inv.InvoiceNumber), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, fmt.Sprintf("Invoice %s", inv.InvoiceNumber))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Client: %s", inv.ClientName))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", inv.Date.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Due: %s", inv.DueDate.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", inv.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(80, 7, "Description")
	pdf.Cell(30, 7, "Qty")
	pdf.Cell(40, 7, "Price")
	pdf.Cell(40, 7, "Amount")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, it := range inv.Items {
		pdf.Cell(80, 7, it.Description)
		pdf.Cell(30, 7, fmt.Sprintf("%d", it.Quantity))
		pdf.Cell(40, 7, money.CentsToString(it.Price))
		pdf.Cell(40, 7, money.CentsToString(it.Quantity*it.Price))
		pdf.Ln(7)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Subtotal: %s", money.CentsToString(inv.Subtotal)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Tax: %s", money.CentsToString(inv.Tax)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Total: %s", money.CentsToString(inv.Total)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
