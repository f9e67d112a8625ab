package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"marketplace-recon/internal/fileio"
	"marketplace-recon/internal/orders"
	"marketplace-recon/internal/report"
	"marketplace-recon/internal/sales"
)

const maxFormMemory = 32 << 20

// processor is the channel-specific piece of a sales upload; everything else
// (file parsing, report writing, the response shape) is shared.
type processor interface {
	Process(rows []map[string]string) []sales.MonthSummary
}

type monthBrief struct {
	Month  string       `json:"month"`
	Lines  int          `json:"lines"`
	Totals sales.Totals `json:"totals"`
}

type processResponse struct {
	Channel string       `json:"channel"`
	Report  string       `json:"report"`
	Months  []monthBrief `json:"months"`
}

// ProcessSales accepts a marketplace export upload, matches and costs every
// row, writes the monthly workbook into reportDir, and returns per-month
// totals. headerKeyword locates the real header row inside the export.
func ProcessSales(proc processor, channel, headerKeyword, reportDir string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rows, name, ok := formRows(w, r, "file")
		if !ok {
			return
		}
		headerRow := fileio.HeaderIndex(rows, headerKeyword)
		if headerRow == 0 {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("no header row containing %q in %s", headerKeyword, name))
			return
		}

		months := proc.Process(fileio.ToMaps(rows, headerRow))
		if len(months) == 0 {
			writeError(w, http.StatusBadRequest, "no sales rows in "+name)
			return
		}

		reportPath, err := writeMonthlyReport(reportDir, channel, months)
		if err != nil {
			logger.Error().Err(err).Str("channel", channel).Msg("report write failed")
			writeError(w, http.StatusInternalServerError, "report write failed")
			return
		}

		resp := processResponse{Channel: channel, Report: reportPath}
		lines := 0
		for _, m := range months {
			lines += len(m.Lines)
			resp.Months = append(resp.Months, monthBrief{Month: m.Name, Lines: len(m.Lines), Totals: m.Totals})
		}
		logger.Info().
			Str("channel", channel).
			Str("file", name).
			Int("months", len(months)).
			Int("lines", lines).
			Dur("elapsed", time.Since(start)).
			Msg("sales processed")
		writeJSON(w, http.StatusOK, resp)
	}
}

type ordersResponse struct {
	Report      string                `json:"report"`
	Products    int                   `json:"products"`
	OrderLines  int                   `json:"order_lines"`
	NeedsReview int                   `json:"needs_review"`
	Totals      orders.OrderTotals    `json:"totals"`
	Review      []orders.AggregateRow `json:"review,omitempty"`
}

// BuildOrders combines eBay and Amazon exports into one restock workbook:
// aggregated sales, a supplier order list with whole-unit quantities, and the
// rows that still need a human eye. Either file part may be omitted.
func BuildOrders(ebay, amazon processor, reportDir string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}

		var months []sales.MonthSummary
		for _, part := range []struct {
			field   string
			keyword string
			proc    processor
		}{
			{"ebay", sales.EbayHeaderKeyword, ebay},
			{"amazon", sales.AmazonHeaderKeyword, amazon},
		} {
			rows, name, err := optionalFormRows(r, part.field)
			if err != nil {
				writeError(w, http.StatusBadRequest, part.field+": "+err.Error())
				return
			}
			if rows == nil {
				continue
			}
			headerRow := fileio.HeaderIndex(rows, part.keyword)
			if headerRow == 0 {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("no header row containing %q in %s", part.keyword, name))
				return
			}
			months = append(months, part.proc.Process(fileio.ToMaps(rows, headerRow))...)
		}
		if len(months) == 0 {
			writeError(w, http.StatusBadRequest, "upload at least one of ebay, amazon")
			return
		}

		agg := orders.Aggregate(months)
		list, totals := orders.OrderList(agg)
		review := orders.NeedsReview(agg)

		reportPath, err := writeOrdersReport(reportDir, agg, list, totals)
		if err != nil {
			logger.Error().Err(err).Msg("orders report write failed")
			writeError(w, http.StatusInternalServerError, "report write failed")
			return
		}

		logger.Info().
			Int("products", len(agg)).
			Int("order_lines", len(list)).
			Int("needs_review", len(review)).
			Dur("elapsed", time.Since(start)).
			Msg("orders built")
		writeJSON(w, http.StatusOK, ordersResponse{
			Report:      reportPath,
			Products:    len(agg),
			OrderLines:  len(list),
			NeedsReview: len(review),
			Totals:      totals,
			Review:      review,
		})
	}
}

// formRows reads the named multipart file part into rows, writing the error
// response itself on failure.
func formRows(w http.ResponseWriter, r *http.Request, field string) ([][]string, string, bool) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return nil, "", false
	}
	rows, name, err := optionalFormRows(r, field)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	if rows == nil {
		writeError(w, http.StatusBadRequest, "missing file part "+field)
		return nil, "", false
	}
	return rows, name, true
}

// optionalFormRows returns (nil, "", nil) when the part is absent.
func optionalFormRows(r *http.Request, field string) ([][]string, string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	rows, err := readUpload(file, header)
	if err != nil {
		return nil, "", err
	}
	return rows, header.Filename, nil
}

func readUpload(file multipart.File, header *multipart.FileHeader) ([][]string, error) {
	return fileio.ReadRows(file, header.Filename)
}

func writeMonthlyReport(dir, channel string, months []sales.MonthSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_sales_%s.xlsx", channel, time.Now().Format("20060102_150405")))
	if err := report.WriteMonthly(path, months); err != nil {
		return "", err
	}
	return path, nil
}

func writeOrdersReport(dir string, agg []orders.AggregateRow, list []orders.OrderLine, totals orders.OrderTotals) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("cms_orders_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := report.WriteOrders(path, agg, list, totals); err != nil {
		return "", err
	}
	return path, nil
}
