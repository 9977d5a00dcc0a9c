package httpadapter

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/brennoviana/mail-triage/internal/core/domain"
)

const exportPageSize = 100

// export streams the full submission history as an XLSX workbook.
func (rt *Router) export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}

	submissions, err := rt.collectAll(r)
	if err != nil {
		writeError(w, err)
		return
	}

	workbook, err := buildWorkbook(submissions)
	if err != nil {
		writeError(w, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("emails-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := workbook.Write(w); err != nil {
		// Headers are already sent; nothing left to tell the client.
		slog.Warn("export_write_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
}

func (rt *Router) collectAll(r *http.Request) ([]domain.Submission, error) {
	var all []domain.Submission
	skip := 0
	for {
		page, err := rt.reader.List(r.Context(), skip, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Submissions...)
		if len(page.Submissions) < exportPageSize {
			return all, nil
		}
		skip += exportPageSize
	}
}

func buildWorkbook(submissions []domain.Submission) (*excelize.File, error) {
	workbook := excelize.NewFile()
	const sheet = "Emails"

	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	workbook.SetActiveSheet(index)
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	header := []any{"ID", "Título", "Tipo", "Classificação", "Resposta sugerida", "Criado em"}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, sub := range submissions {
		row := []any{
			sub.ID,
			sub.Title,
			sub.SourceType,
			string(sub.Classification),
			sub.SuggestedReply,
			sub.CreatedAt.Format(time.RFC3339),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return workbook, nil
}
