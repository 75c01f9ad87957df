package httpserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

var exportHeader = []any{"name", "description", "price", "currency", "category", "sku", "status", "tags", "rating"}

func (s *Server) handleProductsExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		http.Error(w, "export", 500)
		return
	}

	rowIdx := 2
	page := 1
	for {
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{UserID: userID, Page: page, PageSize: 200})
		if err != nil || len(list) == 0 {
			break
		}
		for _, p := range list {
			rating := ""
			if p.Rating != nil {
				rating = strconv.FormatFloat(*p.Rating, 'f', 1, 64)
			}
			row := []any{p.Name, p.Description, p.Price, p.Currency, p.Category, p.SKU, string(p.Status), strings.Join(p.Tags, ","), rating}
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				http.Error(w, "export", 500)
				return
			}
			rowIdx++
		}
		if page*200 >= int(total) {
			break
		}
		page++
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("writing xlsx")
	}
}

func (s *Server) handleProductsImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "multipart", 400)
		return
	}
	fh := r.MultipartForm.File["file"]
	if len(fh) == 0 {
		http.Error(w, "file", 400)
		return
	}
	src, err := fh[0].Open()
	if err != nil {
		http.Error(w, "file", 400)
		return
	}
	defer src.Close()

	data, _ := io.ReadAll(io.LimitReader(src, 24<<20))
	if len(data) == 0 {
		http.Error(w, "empty", 400)
		return
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "xlsx", 400)
		return
	}
	defer f.Close()

	created := 0
	var importErrs []string
	for _, sh := range f.GetSheetList() {
		rows, err := f.GetRows(sh)
		if err != nil || len(rows) < 2 {
			continue
		}
		// Primera fila es encabezado: name, description, price, currency, category, sku, status, tags, rating
		for i, row := range rows[1:] {
			name := col(row, 0)
			if name == "" {
				continue
			}
			p := domain.Product{
				UserID:      userID,
				Name:        name,
				Description: col(row, 1),
				Price:       cast.ToFloat64(col(row, 2)),
				Currency:    col(row, 3),
				Category:    col(row, 4),
				SKU:         col(row, 5),
				Status:      domain.ProductStatus(col(row, 6)),
			}
			if tags := col(row, 7); tags != "" {
				for _, t := range strings.Split(tags, ",") {
					if t = strings.TrimSpace(t); t != "" {
						p.Tags = append(p.Tags, t)
					}
				}
			}
			if raw := col(row, 8); raw != "" {
				if v, err := strconv.ParseFloat(raw, 64); err == nil {
					p.Rating = &v
				}
			}
			if err := s.products.Create(r.Context(), &p); err != nil {
				importErrs = append(importErrs, fmt.Sprintf("row %d: %v", i+2, err))
				continue
			}
			created++
		}
	}

	resp := map[string]any{"created": created, "errors": importErrs}
	log.Info().Int("created", created).Int("errors", len(importErrs)).Msg("import finished")
	writeJSON(w, 200, resp)
}

func col(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
