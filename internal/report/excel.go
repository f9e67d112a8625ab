// Package report writes the accounting workbooks: one sheet per month for
// channel sales, and the consolidated CMS order summary.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	excelize "github.com/xuri/excelize/v2"

	"marketplace-recon/internal/orders"
	"marketplace-recon/internal/sales"
)

const moneyFormat = `£#,##0.00`

type styles struct {
	money  int
	header int
	total  int
}

func makeStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	fmtStr := moneyFormat
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFE699"}},
	}); err != nil {
		return s, err
	}
	return s, nil
}

// sheetName cleans a month label into a valid sheet name: "January 2025" ->
// "JANUARY_2025".
func sheetName(month string) string {
	return strings.ToUpper(strings.ReplaceAll(month, " ", "_"))
}

// WriteMonthly writes one sheet per monthly summary: subscription fee row,
// sales lines, totals row.
func WriteMonthly(path string, months []sales.MonthSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := makeStyles(f)
	if err != nil {
		return err
	}

	headers := []string{
		"Record", "Order", "Sale date", "Items sold", "Listing title",
		"CMS code", "Quantity", "Sold for", "Postage", "Fees",
		"Cost price", "Cost less VAT", "Net profit", "Confidence", "Special handling",
	}

	for i, ms := range months {
		sheet := sheetName(ms.Name)
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), sheet)
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}

		for c, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
			_ = f.SetCellStyle(sheet, cell, cell, st.header)
		}

		// channel subscription before the sales lines
		feeLabel := strings.ToUpper(ms.Channel) + " SUBSCRIPTION FEE"
		fee, _ := ms.SubscriptionFee.Float64()
		_ = f.SetSheetRow(sheet, "A2", &[]interface{}{
			"", "", "", feeLabel, "", "", "", "", "", fee, 0, 0, -fee,
		})

		row := 3
		for _, ln := range ms.Lines {
			_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
				ln.RecordID, ln.OrderID, dateCell(ln), ln.ItemSold, ln.ListingTitle,
				ln.Code, ln.Qty, toF(ln.SoldFor), toF(ln.Postage), toF(ln.Fees),
				toF(ln.CostPrice), toF(ln.CostExcVAT), toF(ln.NetProfit),
				ln.Confidence, string(ln.Handling),
			})
			row++
		}

		t := ms.Totals
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			"Total", "", "", "", "", "",
			t.Qty, toF(t.SoldFor), toF(t.Postage), toF(t.Fees),
			toF(t.CostPrice), toF(t.CostExcVAT), toF(t.NetProfit),
		})
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(headers), row)
		_ = f.SetCellStyle(sheet, first, last, st.total)

		// money columns H..M
		top, _ := excelize.CoordinatesToCellName(8, 2)
		bottom, _ := excelize.CoordinatesToCellName(13, row)
		_ = f.SetCellStyle(sheet, top, bottom, st.money)
		_ = f.SetColWidth(sheet, "D", "E", 40)
		_ = f.SetColWidth(sheet, "H", "M", 12)
	}

	return f.SaveAs(path)
}

// WriteOrders writes the consolidated order workbook: the aggregation, the
// CMS-ready order list, and the rows needing manual review.
func WriteOrders(path string, agg []orders.AggregateRow, list []orders.OrderLine, totals orders.OrderTotals) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := makeStyles(f)
	if err != nil {
		return err
	}

	// Sheet 1: aggregation
	const aggSheet = "Aggregate_Sales"
	f.SetSheetName(f.GetSheetName(0), aggSheet)
	writeHeader(f, aggSheet, st, []string{
		"Items sold", "CMS code", "Quantity", "Sold for", "Cost price",
		"Net profit", "Unit cost", "Months",
	})
	for i, r := range agg {
		_ = f.SetSheetRow(aggSheet, fmt.Sprintf("A%d", i+2), &[]interface{}{
			r.Name, r.Code, r.Qty, toF(r.SoldFor), toF(r.Cost),
			toF(r.Profit), toF(r.UnitCost), strings.Join(r.Months, ", "),
		})
	}
	_ = f.SetColWidth(aggSheet, "A", "A", 45)

	// Sheet 2: CMS order list with a highlighted totals row
	const orderSheet = "CMS_Order_List"
	if _, err := f.NewSheet(orderSheet); err != nil {
		return err
	}
	writeHeader(f, orderSheet, st, []string{
		"CMS code", "Items sold", "Quantity sold", "Order quantity",
		"Unit cost", "Order value", "Notes",
	})
	row := 2
	for _, ln := range list {
		_ = f.SetSheetRow(orderSheet, fmt.Sprintf("A%d", row), &[]interface{}{
			ln.Code, ln.Name, ln.Qty, ln.OrderQty,
			toF(ln.UnitCost), toF(ln.OrderValue), ln.Notes,
		})
		row++
	}
	_ = f.SetSheetRow(orderSheet, fmt.Sprintf("A%d", row), &[]interface{}{
		"TOTAL", "", totals.Qty, totals.OrderQty, "",
		toF(totals.OrderValue), fmt.Sprintf("Total items: %d", totals.Items),
	})
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(7, row)
	_ = f.SetCellStyle(orderSheet, first, last, st.total)
	_ = f.SetColWidth(orderSheet, "B", "B", 45)

	// Sheet 3: manual review, only when there is anything to review
	review := orders.NeedsReview(agg)
	if len(review) > 0 {
		const reviewSheet = "Needs_Review"
		if _, err := f.NewSheet(reviewSheet); err != nil {
			return err
		}
		writeHeader(f, reviewSheet, st, []string{
			"Items sold", "CMS code", "Quantity", "Sold for", "Unit cost",
		})
		for i, r := range review {
			_ = f.SetSheetRow(reviewSheet, fmt.Sprintf("A%d", i+2), &[]interface{}{
				r.Name, r.Code, r.Qty, toF(r.SoldFor), toF(r.UnitCost),
			})
		}
		_ = f.SetColWidth(reviewSheet, "A", "A", 45)
	}

	return f.SaveAs(path)
}

func writeHeader(f *excelize.File, sheet string, st styles, headers []string) {
	for c, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, st.header)
	}
}

func dateCell(ln sales.Line) interface{} {
	if ln.Date.IsZero() {
		return ""
	}
	return ln.Date.Format("2006-01-02")
}

func toF(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
