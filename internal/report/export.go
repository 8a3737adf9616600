// Package report renders dashboard overviews as downloadable documents.
package report

import (
	"bytes"
	"fmt"

	apperrors "github.com/Paaanciitoo/admin-ecommerce/internal/errors"
	"github.com/Paaanciitoo/admin-ecommerce/internal/service"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Format is a supported export format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Build renders the overview in the requested format.
func Build(format Format, store *service.StoreDto, overview *service.OverviewDto) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return BuildOverviewXLSX(store, overview)
	case FormatPDF:
		return BuildOverviewPDF(store, overview)
	default:
		return nil, fmt.Errorf("format %q: %w", format, apperrors.ErrUnsupportedFormat)
	}
}

// BuildOverviewPDF renders a one page summary followed by a revenue table per year.
func BuildOverviewPDF(store *service.StoreDto, overview *service.OverviewDto) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, tr("Store Dashboard"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Store: %s", store.Name)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Store ID: %s", store.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", overview.GeneratedAt))
	pdf.Ln(9)

	pdf.Cell(0, 6, fmt.Sprintf("Total Revenue: %.2f", overview.TotalRevenue.Total))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Change vs Prior Month: %.2f%%", overview.TotalRevenue.PercentageChange))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Sales: %d (today vs yesterday: %+d)", overview.SalesCount.Total, overview.SalesCount.DailyChange))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Products in Stock: %d (new this week: %d)", overview.StockCount.Total, overview.StockCount.NewProducts))
	pdf.Ln(8)

	for _, yr := range overview.GraphRevenue {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Revenue %d", yr.Year))
		pdf.Ln(7)
		pdf.CellFormat(50, 6, "Month", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Revenue", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, m := range yr.Months {
			pdf.CellFormat(50, 6, tr(m.Name), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", m.Total), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildOverviewXLSX renders a summary sheet and a revenue sheet with one row per month.
func BuildOverviewXLSX(store *service.StoreDto, overview *service.OverviewDto) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "summary"
	revenueSheet := "revenue"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(revenueSheet); err != nil {
		return nil, err
	}

	summary := [][2]any{
		{"Store Dashboard", nil},
		{nil, nil},
		{"Store", store.Name},
		{"Store ID", store.ID.String()},
		{"Generated", overview.GeneratedAt},
		{"Total Revenue", overview.TotalRevenue.Total},
		{"Change vs Prior Month (%)", overview.TotalRevenue.PercentageChange},
		{"Sales", overview.SalesCount.Total},
		{"Sales Today vs Yesterday", overview.SalesCount.DailyChange},
		{"Products in Stock", overview.StockCount.Total},
		{"New Products This Week", overview.StockCount.NewProducts},
	}
	for i, row := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &[]any{row[0], row[1]}); err != nil {
			return nil, err
		}
	}

	if err := f.SetSheetRow(revenueSheet, "A1", &[]any{"Year", "Month", "Revenue"}); err != nil {
		return nil, err
	}
	row := 2
	for _, yr := range overview.GraphRevenue {
		for _, m := range yr.Months {
			if err := f.SetSheetRow(revenueSheet, fmt.Sprintf("A%d", row), &[]any{yr.Year, m.Name, m.Total}); err != nil {
				return nil, err
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
