package reports

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
)

// UsagePDF handles GET /api/reports/usage/pdf and renders the usage
// report as a downloadable PDF.
func UsagePDF(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	win := windowFromRequest(r)
	rows, err := fetchUsageReport(ctx, win)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Slot Usage Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Window: %s to %s",
		win.From.Format("2006-01-02 15:04"), win.To.Format("2006-01-02 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(50, 8, "Slot", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Sessions", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Minutes", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.CellFormat(50, 8, row.SlotID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, strconv.Itoa(row.Sessions), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, strconv.FormatFloat(row.Minutes, 'f', 0, 64), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="usage-report.pdf"`)
	w.Write(buf.Bytes())
}
