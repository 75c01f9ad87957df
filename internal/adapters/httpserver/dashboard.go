package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/cataloguehub/cataloguehub/internal/domain"
)

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		f := domain.ProductFilter{
			UserID:   userID,
			Category: q.Get("category"),
			Query:    q.Get("q"),
			Status:   domain.ProductStatus(q.Get("status")),
			Page:     page,
		}
		list, total, err := s.products.List(r.Context(), f)
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": total})
	case http.MethodPost:
		var req productPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		p := req.toProduct(userID)
		if err := s.products.Create(r.Context(), p); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 201, p)
	default:
		http.Error(w, "method", 405)
	}
}

type productPayload struct {
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Price        float64               `json:"price"`
	Currency     string                `json:"currency"`
	Category     string                `json:"category"`
	SKU          string                `json:"sku"`
	TemplateID   *uuid.UUID            `json:"template_id"`
	CustomFields []domain.ProductField `json:"custom_fields"`
	Tags         []string              `json:"tags"`
	Images       []string              `json:"images"`
	Rating       *float64              `json:"rating"`
	Status       domain.ProductStatus  `json:"status"`
}

func (pl *productPayload) toProduct(userID uuid.UUID) *domain.Product {
	return &domain.Product{
		UserID:       userID,
		Name:         pl.Name,
		Description:  pl.Description,
		Price:        pl.Price,
		Currency:     pl.Currency,
		Category:     pl.Category,
		SKU:          pl.SKU,
		TemplateID:   pl.TemplateID,
		CustomFields: pl.CustomFields,
		Tags:         pl.Tags,
		Images:       pl.Images,
		Rating:       pl.Rating,
		Status:       pl.Status,
	}
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/products/"))
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.Get(r.Context(), userID, id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodPut:
		var req productPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		p := req.toProduct(userID)
		p.ID = id
		if err := s.products.Update(r.Context(), userID, p); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodDelete:
		if err := s.products.Delete(r.Context(), userID, id); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok", "id": id})
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiProductCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	cats, err := s.products.Categories(r.Context(), userID)
	if err != nil {
		http.Error(w, "categories", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"categories": cats})
}

func (s *Server) apiTemplates(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.templates.ListByUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
	case http.MethodPost:
		var t domain.FieldTemplate
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "json", 400)
			return
		}
		t.UserID = userID
		if err := s.templates.Create(r.Context(), &t); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 201, t)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiTemplateByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/templates/"))
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch r.Method {
	case http.MethodGet:
		t, err := s.templates.Get(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if t.UserID != userID {
			http.Error(w, "forbidden", 403)
			return
		}
		writeJSON(w, 200, map[string]any{
			"template": t,
			"fields":   s.templates.FieldDefinitionsFor(t),
		})
	case http.MethodPut:
		var t domain.FieldTemplate
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, "json", 400)
			return
		}
		t.ID = id
		if err := s.templates.Update(r.Context(), userID, &t); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, t)
	case http.MethodDelete:
		if err := s.templates.Delete(r.Context(), userID, id); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok", "id": id})
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiCatalogues(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.catalogues.ListByUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
	case http.MethodPost:
		var c domain.Catalogue
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "json", 400)
			return
		}
		c.UserID = userID
		if err := s.catalogues.Create(r.Context(), &c); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		writeJSON(w, 201, c)
	default:
		http.Error(w, "method", 405)
	}
}

func (s *Server) apiCatalogueByID(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		c, err := s.catalogues.Get(r.Context(), userID, id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodPut:
		var c domain.Catalogue
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "json", 400)
			return
		}
		c.ID = id
		if err := s.catalogues.Update(r.Context(), userID, &c); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodDelete:
		if err := s.catalogues.Delete(r.Context(), userID, id); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok", "id": id})
	default:
		http.Error(w, "method", 405)
	}
}

func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", 404)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "forbidden", 403)
	default:
		http.Error(w, err.Error(), 400)
	}
}
