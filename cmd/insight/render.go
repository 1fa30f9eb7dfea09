package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/SambhavSurthi/StockInsight/internal/align"
	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// renderTable lays the aligned rows out as a plain-text comparison table,
// one row per date, one column per company. Cells with no observation or
// no computable change render as "-".
func renderTable(companies []model.CompanyRef, rows []model.AlignedRow, dir model.Direction) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)

	header := "Date"
	for _, co := range companies {
		header += "\t" + co.Name
	}
	fmt.Fprintln(w, header)

	for i, row := range rows {
		line := row.Date.Format(model.DateFormat)
		for _, co := range companies {
			line += "\t" + formatCell(rows, i, co.ScreenerID, dir)
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()
	return b.String()
}

func formatCell(rows []model.AlignedRow, idx int, companyID int64, dir model.Direction) string {
	price, ok := rows[idx].Prices[companyID]
	if !ok || price == nil {
		return "-"
	}
	cell := fmt.Sprintf("%.2f", *price)
	if chg := align.Change(rows, idx, companyID, dir); chg != nil {
		cell += fmt.Sprintf(" (%+.2f, %+.2f%%)", chg.Absolute, chg.Percent)
	}
	return cell
}
