package app

import (
	"net/http"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/cataloguehub/cataloguehub/internal/adapters/httpserver"
	"github.com/cataloguehub/cataloguehub/internal/adapters/repo/postgres"
	"github.com/cataloguehub/cataloguehub/internal/domain"
	"github.com/cataloguehub/cataloguehub/internal/usecase"
)

type App struct {
	DB          *gorm.DB
	ProductUC   *usecase.ProductUC
	CatalogueUC *usecase.CatalogueUC
	TemplateUC  *usecase.TemplateUC
	UserUC      *usecase.UserUC
	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	catRepo := postgres.NewCatalogueRepo(db)
	tmplRepo := postgres.NewTemplateRepo(db)
	userRepo := postgres.NewUserRepo(db)

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:          db,
		ProductUC:   &usecase.ProductUC{Products: prodRepo},
		CatalogueUC: &usecase.CatalogueUC{Catalogues: catRepo, Products: prodRepo, Templates: tmplRepo},
		TemplateUC:  &usecase.TemplateUC{Templates: tmplRepo},
		UserUC:      &usecase.UserUC{Users: userRepo},
		OAuthConfig: oauthCfg,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.CatalogueUC, a.TemplateUC, a.UserUC, a.OAuthConfig)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.User{}, &domain.FieldTemplate{}, &domain.Product{}, &domain.Catalogue{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_user_category ON products(user_id, category)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_catalogues_user_id ON catalogues(user_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_field_templates_user_id ON field_templates(user_id)").Error

	if os.Getenv("SEED_DEMO") != "false" {
		seedDemo(a.DB)
	}
	return nil
}

// seedDemo creates the demo account with sample templates, products and a
// public catalogue. Idempotent: skipped when the demo user already exists.
func seedDemo(db *gorm.DB) {
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ?", "demo@cataloguehub.local").Count(&count).Error; err != nil || count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	user := domain.User{
		ID:           uuid.New(),
		Email:        "demo@cataloguehub.local",
		Name:         "John Demo",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
		Company:      "Demo Co",
	}
	if err := db.Create(&user).Error; err != nil {
		return
	}

	furniture := domain.FieldTemplate{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   "Furniture",
		Fields: []domain.FieldDefinition{
			{ID: "material", Name: "Material", Type: domain.FieldSelect, Options: []string{"Wood", "Metal", "Plastic", "Fabric"}},
			{ID: "weight", Name: "Weight", Type: domain.FieldNumber, Unit: "kg"},
			{ID: "assembly_required", Name: "Assembly Required", Type: domain.FieldBoolean},
			{ID: "colors", Name: "Available Colors", Type: domain.FieldMultiselect, Options: []string{"Black", "White", "Grey", "Oak"}},
		},
		Categories: []string{"Furniture", "Office"},
	}
	electronics := domain.FieldTemplate{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   "Electronics",
		Fields: []domain.FieldDefinition{
			{ID: "battery_life", Name: "Battery Life", Type: domain.FieldNumber, Unit: "h"},
			{ID: "wireless", Name: "Wireless", Type: domain.FieldBoolean},
			{ID: "warranty", Name: "Warranty", Type: domain.FieldSelect, Options: []string{"1 year", "2 years", "3 years"}},
			{ID: "release_date", Name: "Release Date", Type: domain.FieldDate},
		},
		Categories: []string{"Electronics", "Audio"},
	}
	db.Create(&furniture)
	db.Create(&electronics)

	chairRating := 4.5
	headphonesRating := 4.8
	chair := domain.Product{
		ID:          uuid.New(),
		UserID:      user.ID,
		Slug:        "premium-office-chair",
		Name:        "Premium Office Chair",
		Description: "Ergonomic office chair with lumbar support and adjustable armrests.",
		Price:       299.99,
		Currency:    "USD",
		Category:    "Furniture",
		SKU:         "CHAIR-001",
		TemplateID:  &furniture.ID,
		CustomFields: []domain.ProductField{
			{FieldID: "material", FieldName: "Material", FieldType: domain.FieldSelect, Value: "Fabric"},
			{FieldID: "weight", FieldName: "Weight", FieldType: domain.FieldNumber, Value: 14.2, Unit: "kg"},
			{FieldID: "assembly_required", FieldName: "Assembly Required", FieldType: domain.FieldBoolean, Value: true},
			{FieldID: "colors", FieldName: "Available Colors", FieldType: domain.FieldMultiselect, Value: []string{"Black", "Grey"}},
		},
		Tags:   []string{"office", "ergonomic", "furniture"},
		Rating: &chairRating,
		Status: domain.ProductActive,
	}
	headphones := domain.Product{
		ID:          uuid.New(),
		UserID:      user.ID,
		Slug:        "wireless-bluetooth-headphones",
		Name:        "Wireless Bluetooth Headphones",
		Description: "Over-ear headphones with active noise cancellation.",
		Price:       149.99,
		Currency:    "USD",
		Category:    "Electronics",
		SKU:         "AUDIO-010",
		TemplateID:  &electronics.ID,
		CustomFields: []domain.ProductField{
			{FieldID: "battery_life", FieldName: "Battery Life", FieldType: domain.FieldNumber, Value: 30, Unit: "h"},
			{FieldID: "wireless", FieldName: "Wireless", FieldType: domain.FieldBoolean, Value: true},
			{FieldID: "warranty", FieldName: "Warranty", FieldType: domain.FieldSelect, Value: "2 years"},
			{FieldID: "release_date", FieldName: "Release Date", FieldType: domain.FieldDate, Value: "2025-03-15"},
		},
		Tags:   []string{"electronics", "wireless", "audio"},
		Rating: &headphonesRating,
		Status: domain.ProductActive,
	}
	db.Create(&chair)
	db.Create(&headphones)

	catalogue := domain.Catalogue{
		ID:               uuid.New(),
		UserID:           user.ID,
		Name:             "Demo Showroom",
		Description:      "A sample public catalogue with products from every template.",
		Slug:             "demo-showroom",
		SelectedProducts: []uuid.UUID{chair.ID, headphones.ID},
		Settings:         domain.DefaultCatalogueSettings(),
		IsPublic:         true,
		Status:           domain.CatalogueActive,
	}
	db.Create(&catalogue)
}
