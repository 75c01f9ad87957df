package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/cataloguehub/cataloguehub/internal/catalog"
	"github.com/cataloguehub/cataloguehub/internal/domain"
	"github.com/cataloguehub/cataloguehub/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	products   *usecase.ProductUC
	catalogues *usecase.CatalogueUC
	templates  *usecase.TemplateUC
	users      *usecase.UserUC
	oauthCfg   *oauth2.Config

	jwtSecret     []byte
	adminEmail    string
	adminPassword string
}

func New(p *usecase.ProductUC, c *usecase.CatalogueUC, t *usecase.TemplateUC, u *usecase.UserUC, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		products:   p,
		catalogues: c,
		templates:  t,
		users:      u,
		oauthCfg:   oauthCfg,
	}

	sec := os.Getenv("JWT_SECRET")
	if sec == "" {
		sec = os.Getenv("SECRET_KEY")
	}
	if sec == "" {
		sec = "dev-insecure-secret"
	}
	s.jwtSecret = []byte(sec)

	s.adminEmail = os.Getenv("ADMIN_EMAIL")
	if s.adminEmail == "" {
		s.adminEmail = "admin@cataloguehub.local"
	}
	s.adminPassword = os.Getenv("ADMIN_PASSWORD")
	if s.adminPassword == "" {
		s.adminPassword = "admin123"
	}

	s.routes()
	return Chain(s.mux,
		PublicRateLimit(map[string]int{
			"/api/auth/signup": 10,
			"/api/auth/login":  15,
			"/api/admin/login": 10,
		}),
		RateLimit(120),
		SecurityHeaders,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/auth/signup", s.handleSignup)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/api/auth/me", s.handleMe)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/", s.apiProductByID)
	s.mux.HandleFunc("/api/products/categories", s.apiProductCategories)
	s.mux.HandleFunc("/api/products/export", s.handleProductsExport)
	s.mux.HandleFunc("/api/products/import", s.handleProductsImport)

	s.mux.HandleFunc("/api/templates", s.apiTemplates)
	s.mux.HandleFunc("/api/templates/", s.apiTemplateByID)

	s.mux.HandleFunc("/api/catalogues", s.apiCatalogues)
	s.mux.HandleFunc("/api/catalogues/", s.apiCatalogueByPath)

	s.mux.HandleFunc("/api/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("/api/admin/users", s.apiAdminUsers)
	s.mux.HandleFunc("/api/admin/users/", s.apiAdminUserByID)
	s.mux.HandleFunc("/api/admin/stats", s.apiAdminStats)

	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"status": "ok"})
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// apiCatalogueByPath routes /api/catalogues/{idOrSlug}[/compare]. A uuid
// segment is an owner operation; anything else is a public slug read.
func (s *Server) apiCatalogueByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/catalogues/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	if slug, ok := strings.CutSuffix(rest, "/compare"); ok {
		s.handlePublicCompare(w, r, slug)
		return
	}
	if slug, ok := strings.CutSuffix(rest, "/share"); ok {
		s.handlePublicShare(w, r, slug)
		return
	}

	if id, err := uuid.Parse(rest); err == nil {
		s.apiCatalogueByID(w, r, id)
		return
	}
	s.handlePublicCatalogue(w, r, rest)
}

func (s *Server) handlePublicCatalogue(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	q := r.URL.Query()

	f := catalog.Filter{
		Query:       q.Get("q"),
		Category:    q.Get("category"),
		InStockOnly: q.Get("in_stock") == "true" || q.Get("in_stock") == "1",
		SortBy:      q.Get("sort"),
	}
	f.PriceMin, _ = strconv.ParseFloat(q.Get("price_min"), 64)
	f.PriceMax, _ = strconv.ParseFloat(q.Get("price_max"), 64)
	if raw := strings.TrimSpace(q.Get("tags")); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}
	for key, vals := range q {
		if id, ok := strings.CutPrefix(key, "f_"); ok && len(vals) > 0 {
			if f.Fields == nil {
				f.Fields = map[string]string{}
			}
			f.Fields[id] = vals[0]
		}
	}
	page, _ := strconv.Atoi(q.Get("page"))

	view, err := s.catalogues.PublicView(r.Context(), slug, f, page)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "catalogue", 500)
		return
	}

	items := make([]map[string]any, 0, len(view.Products))
	for i := range view.Products {
		items = append(items, publicProduct(&view.Products[i], view.Catalogue.Settings.ShowPrices))
	}
	writeJSON(w, 200, map[string]any{
		"catalogue": map[string]any{
			"name":        view.Catalogue.Name,
			"description": view.Catalogue.Description,
			"slug":        view.Catalogue.Slug,
			"settings":    view.Catalogue.Settings,
		},
		"fields":    view.Fields,
		"items":     items,
		"total":     view.Total,
		"page":      view.Page,
		"page_size": view.PageSize,
	})
}

func (s *Server) handlePublicShare(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	if err := s.catalogues.RecordShare(r.Context(), slug); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "share", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"status": "ok"})
}

func (s *Server) handlePublicCompare(w http.ResponseWriter, r *http.Request, slug string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	var ids []uuid.UUID
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "ids", 400)
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		http.Error(w, "ids", 400)
		return
	}

	cmp, ok, err := s.catalogues.PublicCompare(r.Context(), slug, ids)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			http.Error(w, "comparison disabled", 403)
			return
		}
		http.Error(w, "compare", 500)
		return
	}
	if !ok {
		http.Error(w, "at most 4 products", 400)
		return
	}

	rows := make([]map[string]any, 0, len(cmp.Rows))
	for _, row := range cmp.Rows {
		rows = append(rows, map[string]any{
			"field":  row.Field,
			"link":   row.Field.Type.Linkable(),
			"values": row.Values,
		})
	}
	products := make([]map[string]any, 0, len(cmp.Products))
	for i := range cmp.Products {
		products = append(products, publicProduct(&cmp.Products[i], true))
	}
	stats := map[string]any{
		"price_min":  cmp.Stats.PriceMin,
		"price_max":  cmp.Stats.PriceMax,
		"in_stock":   cmp.Stats.InStock,
		"total":      cmp.Stats.Total,
		"categories": cmp.Stats.Categories,
	}
	if cmp.Stats.AvgRating != nil {
		stats["avg_rating"] = *cmp.Stats.AvgRating
	}
	writeJSON(w, 200, map[string]any{"products": products, "rows": rows, "stats": stats})
}

func publicProduct(rp *catalog.ResolvedProduct, showPrice bool) map[string]any {
	p := &rp.Product
	out := map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"tags":        p.Tags,
		"images":      p.Images,
		"in_stock":    p.InStock(),
	}
	if showPrice {
		out["price"] = p.Price
		out["currency"] = p.Currency
	}
	if p.Rating != nil {
		out["rating"] = *p.Rating
	}
	fields := make([]map[string]any, 0, len(rp.Fields))
	for _, rf := range rp.Fields {
		fields = append(fields, map[string]any{
			"id":        rf.Def.ID,
			"name":      rf.Def.Name,
			"type":      rf.Def.Type,
			"value":     catalog.FormatFieldValue(rf.Value, rf.Def.Unit),
			"invalid":   rf.Value.Invalid,
			"in_schema": rf.InSchema,
		})
	}
	out["fields"] = fields
	return out
}
