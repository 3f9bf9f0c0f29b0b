package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// handleAdminExport writes the customer list to an .xlsx file under the
// exports directory and streams it back as a download.
func (s *Server) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	path, err := s.exportCustomersToExcel()
	if err != nil {
		s.logger.Error().Err(err).Msg("Customer export failed")
		writeError(w, http.StatusInternalServerError, "エクスポートに失敗しました")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

func (s *Server) exportCustomersToExcel() (string, error) {
	if err := os.MkdirAll(s.cfg.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "顧客一覧"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"トークン", "名前", "メール", "電話", "都道府県", "家族構成", "世帯年収",
		"物件種別", "希望エリア", "予算", "ステージ", "ステータス", "タグ", "登録日",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, c := range s.customers.List() {
		row := i + 2
		values := []any{
			c.Token,
			dashDefault(c.Name),
			dashDefault(c.Email),
			dashDefault(c.Phone),
			dashDefault(c.Prefecture),
			dashDefault(c.Family),
			dashDefault(c.HouseholdIncome),
			dashDefault(c.PropertyType),
			dashDefault(c.Area),
			dashDefault(c.Budget),
			c.EffectiveStage(),
			c.EffectiveStatus(),
			joinTags(c.Tags),
			c.CreatedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 34)
	_ = f.SetColWidth(sheetName, "B", "J", 18)
	_ = f.SetColWidth(sheetName, "K", "L", 12)
	_ = f.SetColWidth(sheetName, "M", "N", 24)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("customers_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(s.cfg.Exports.Path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	s.logger.Info().Str("file_path", filePath).Msg("Customer export created")
	return filePath, nil
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
