package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cataloguehub/cataloguehub/internal/domain"
	"github.com/cataloguehub/cataloguehub/internal/usecase"
)

type memProductRepo struct {
	byID map[uuid.UUID]domain.Product
}

func (m *memProductRepo) Save(_ context.Context, p *domain.Product) error {
	m.byID[p.ID] = *p
	return nil
}

func (m *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *memProductRepo) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	for _, p := range m.byID {
		if p.Slug == slug {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProductRepo) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range m.byID {
		if f.UserID != uuid.Nil && p.UserID != f.UserID {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

func (m *memProductRepo) DistinctCategories(_ context.Context, _ uuid.UUID) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range m.byID {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (m *memProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

type memCatalogueRepo struct {
	byID map[uuid.UUID]domain.Catalogue
}

func (m *memCatalogueRepo) Save(_ context.Context, c *domain.Catalogue) error {
	m.byID[c.ID] = *c
	return nil
}

func (m *memCatalogueRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Catalogue, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (m *memCatalogueRepo) FindBySlug(_ context.Context, slug string) (*domain.Catalogue, error) {
	for _, c := range m.byID {
		if c.Slug == slug {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCatalogueRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Catalogue, error) {
	var out []domain.Catalogue
	for _, c := range m.byID {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCatalogueRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

func (m *memCatalogueRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	if c, ok := m.byID[id]; ok {
		c.Views++
		m.byID[id] = c
	}
	return nil
}

func (m *memCatalogueRepo) IncrementShares(_ context.Context, id uuid.UUID) error {
	if c, ok := m.byID[id]; ok {
		c.Shares++
		m.byID[id] = c
	}
	return nil
}

func (m *memCatalogueRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

type memTemplateRepo struct {
	byID map[uuid.UUID]domain.FieldTemplate
}

func (m *memTemplateRepo) Save(_ context.Context, t *domain.FieldTemplate) error {
	m.byID[t.ID] = *t
	return nil
}

func (m *memTemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.FieldTemplate, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (m *memTemplateRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.FieldTemplate, error) {
	var out []domain.FieldTemplate
	for _, t := range m.byID {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

type memUserRepo struct {
	byID map[uuid.UUID]domain.User
}

func (m *memUserRepo) Save(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = *u
	return nil
}

func (m *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.byID, id)
	return nil
}

func (m *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.byID)), nil
}

type testEnv struct {
	handler    http.Handler
	owner      uuid.UUID
	slug       string
	catalogues *memCatalogueRepo
	catID      uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	products := &memProductRepo{byID: map[uuid.UUID]domain.Product{}}
	catalogues := &memCatalogueRepo{byID: map[uuid.UUID]domain.Catalogue{}}
	templates := &memTemplateRepo{byID: map[uuid.UUID]domain.FieldTemplate{}}
	users := &memUserRepo{byID: map[uuid.UUID]domain.User{}}

	owner := uuid.New()
	tmpl := domain.FieldTemplate{
		ID:     uuid.New(),
		UserID: owner,
		Name:   "Furniture",
		Fields: []domain.FieldDefinition{
			{ID: "material", Name: "Material", Type: domain.FieldSelect, Options: []string{"Wood", "Metal"}},
		},
	}
	require.NoError(t, templates.Save(context.Background(), &tmpl))

	mk := func(name, slug, category string, price float64) uuid.UUID {
		p := domain.Product{
			ID:       uuid.New(),
			UserID:   owner,
			Slug:     slug,
			Name:     name,
			Price:    price,
			Currency: "USD",
			Category: category,
			Status:   domain.ProductActive,
			CustomFields: []domain.ProductField{
				{FieldID: "material", FieldName: "Material", FieldType: domain.FieldSelect, Value: "Wood"},
			},
			TemplateID: &tmpl.ID,
		}
		require.NoError(t, products.Save(context.Background(), &p))
		return p.ID
	}
	chair := mk("Oak Chair", "oak-chair", "Furniture", 120)
	desk := mk("Standing Desk", "standing-desk", "Furniture", 300)
	lamp := mk("Desk Lamp", "desk-lamp", "Lighting", 45)

	cat := domain.Catalogue{
		ID:               uuid.New(),
		UserID:           owner,
		Name:             "Showroom",
		Slug:             "showroom",
		SelectedProducts: []uuid.UUID{chair, desk, lamp},
		Settings:         domain.DefaultCatalogueSettings(),
		IsPublic:         true,
		Status:           domain.CatalogueActive,
	}
	require.NoError(t, catalogues.Save(context.Background(), &cat))

	handler := New(
		&usecase.ProductUC{Products: products},
		&usecase.CatalogueUC{Catalogues: catalogues, Products: products, Templates: templates},
		&usecase.TemplateUC{Templates: templates},
		&usecase.UserUC{Users: users},
		nil,
	)
	return &testEnv{handler: handler, owner: owner, slug: cat.Slug, catalogues: catalogues, catID: cat.ID}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, 200, rec.Code)
}

func TestPublicCatalogue(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/catalogues/showroom", nil)
	require.Equal(t, 200, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(3), body["total"])

	cat, ok := body["catalogue"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Showroom", cat["name"])
}

func TestPublicCatalogueFilters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/catalogues/showroom?category=Lighting", nil)
	require.Equal(t, 200, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["total"])

	rec = env.do(http.MethodGet, "/api/catalogues/showroom?price_min=100&price_max=200", nil)
	require.Equal(t, 200, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(1), body["total"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Oak Chair", items[0].(map[string]any)["name"])
}

func TestPublicCatalogueNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/catalogues/nope", nil)
	assert.Equal(t, 404, rec.Code)
}

func TestPublicCompareTooManyIDs(t *testing.T) {
	env := newTestEnv(t)

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	rec := env.do(http.MethodGet, "/api/catalogues/showroom/compare?ids="+strings.Join(ids, ","), nil)
	assert.Equal(t, 400, rec.Code)
}

func TestPublicCompareBadID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/catalogues/showroom/compare?ids=not-a-uuid", nil)
	assert.Equal(t, 400, rec.Code)
}

func TestPublicShare(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/catalogues/showroom/share", nil)
	require.Equal(t, 200, rec.Code)
	rec = env.do(http.MethodPost, "/api/catalogues/showroom/share", nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, int64(2), env.catalogues.byID[env.catID].Shares)

	rec = env.do(http.MethodPost, "/api/catalogues/nope/share", nil)
	assert.Equal(t, 404, rec.Code)

	rec = env.do(http.MethodGet, "/api/catalogues/showroom/share", nil)
	assert.Equal(t, 405, rec.Code)
}

func TestDashboardRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/products", "/api/templates", "/api/catalogues"} {
		rec := env.do(http.MethodGet, path, nil)
		assert.Equal(t, 401, rec.Code, path)
	}
}

func TestSignupThenLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "maria@example.com",
		"name":     "Maria",
		"password": "supersecret",
	})
	require.Equal(t, 201, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.NotEmpty(t, body["token"])

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, 200, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "wrong",
	})
	assert.Equal(t, 401, rec.Code)
}

func TestAuthenticatedProductFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "owner@example.com",
		"name":     "Owner",
		"password": "supersecret",
	})
	require.Equal(t, 201, rec.Code)
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	b, _ := json.Marshal(map[string]any{"name": "Bookshelf", "price": 89.5, "category": "Furniture"})
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(b))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	require.Equal(t, 201, rr.Code, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	require.Equal(t, 200, rr.Code)
	body := decode(t, rr)
	items := body["items"].([]any)
	assert.Len(t, items, 1)
}

func TestAdminLoginAndStats(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@cataloguehub.local",
		"password": "admin123",
	})
	require.Equal(t, 200, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	require.Equal(t, 200, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, float64(3), body["products"])
	assert.Equal(t, float64(1), body["catalogues"])
}

func TestAdminCreatesUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@cataloguehub.local",
		"password": "admin123",
	})
	require.Equal(t, 200, rec.Code)
	token, _ := decode(t, rec)["token"].(string)

	post := func(body map[string]string) *httptest.ResponseRecorder {
		b, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/admin/users", bytes.NewReader(b))
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, req)
		return rr
	}

	rr := post(map[string]string{"email": "new@example.com", "name": "New User", "password": "longenough"})
	require.Equal(t, 201, rr.Code, rr.Body.String())
	created := decode(t, rr)
	assert.Equal(t, "new@example.com", created["Email"])
	assert.Equal(t, "user", created["Role"])
	assert.Equal(t, "active", created["Status"])

	rr = post(map[string]string{"email": "new@example.com", "name": "Dup"})
	assert.Equal(t, 409, rr.Code)

	rr = post(map[string]string{"name": "No Email"})
	assert.Equal(t, 400, rr.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "new@example.com",
		"password": "longenough",
	})
	assert.Equal(t, 200, rec.Code)
}

func TestAdminLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@cataloguehub.local",
		"password": "nope",
	})
	assert.Equal(t, 401, rec.Code)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "plain@example.com",
		"name":     "Plain",
		"password": "supersecret",
	})
	require.Equal(t, 201, rec.Code)
	token, _ := decode(t, rec)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	assert.Equal(t, 401, rr.Code)
}
