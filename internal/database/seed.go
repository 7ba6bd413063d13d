package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pricelist/internal/models"
)

// Catalog is the subset of the product service needed for seeding.
type Catalog interface {
	CountProducts(ctx context.Context) (int64, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
}

type seedProduct struct {
	articleNo   string
	productName string
	inPrice     string
	price       string
	unit        string
	inStock     int
	description string
}

var demoCatalog = []seedProduct{
	{"1234567890", "This is a test product with fifty characters this!", "900.50", "1500.80", "kilometers/hour", 2500, "This is the description with fifty characters this"},
	{"SONY-DSLR-001", "Sony DSLR 12345", "12000.00", "15000.00", "piece", 15, "Professional DSLR camera with advanced features"},
	{"RANDOM-001", "Random product", "1000.00", "1234.00", "piece", 50, "A random product for testing purposes"},
	{"LAPTOP-001", `MacBook Pro 16"`, "2500.00", "3200.00", "piece", 8, "High-performance laptop for professionals"},
	{"PHONE-001", "iPhone 15 Pro", "800.00", "1200.00", "piece", 25, "Latest iPhone with advanced camera system"},
	{"HEADPHONES-001", "Sony WH-1000XM5", "300.00", "450.00", "piece", 30, "Premium noise-cancelling headphones"},
	{"MONITOR-001", `Dell UltraSharp 27"`, "400.00", "600.00", "piece", 12, "Professional grade monitor with 4K resolution"},
	{"KEYBOARD-001", "Mechanical Gaming Keyboard", "80.00", "120.00", "piece", 45, "RGB mechanical keyboard with custom switches"},
	{"MOUSE-001", "Logitech G Pro X", "60.00", "90.00", "piece", 60, "Wireless gaming mouse with HERO sensor"},
	{"SPEAKERS-001", "Bose Companion 20", "150.00", "220.00", "pair", 18, "Premium desktop speakers with subwoofer"},
	{"WEBCAM-001", "Logitech StreamCam", "120.00", "180.00", "piece", 22, "1080p webcam with autofocus and HDR"},
	{"MICROPHONE-001", "Blue Yeti USB Microphone", "100.00", "150.00", "piece", 35, "Professional USB microphone for streaming"},
	{"TABLET-001", `iPad Pro 12.9"`, "900.00", "1200.00", "piece", 10, "Professional tablet with M2 chip"},
	{"WATCH-001", "Apple Watch Series 9", "300.00", "450.00", "piece", 28, "Latest smartwatch with health monitoring"},
	{"DRONE-001", "DJI Mini 3 Pro", "600.00", "850.00", "piece", 8, "Compact drone with 4K camera"},
	{"GAMING-001", "PlayStation 5", "400.00", "550.00", "piece", 15, "Next-gen gaming console"},
	{"NETWORK-001", "TP-Link Archer C7", "50.00", "75.00", "piece", 40, "Dual-band wireless router"},
	{"STORAGE-001", "Samsung 970 EVO SSD", "80.00", "120.00", "piece", 55, "1TB NVMe SSD for high-speed storage"},
	{"POWER-001", "Anker PowerCore 26800", "40.00", "65.00", "piece", 70, "High-capacity portable charger"},
	{"CABLE-001", "USB-C to Lightning Cable", "15.00", "25.00", "piece", 100, "Fast charging cable for Apple devices"},
	{"STAND-001", "Laptop Stand Aluminum", "25.00", "40.00", "piece", 80, "Adjustable laptop stand for ergonomics"},
	{"LAMP-001", "LED Desk Lamp", "30.00", "50.00", "piece", 65, "Adjustable LED desk lamp with touch control"},
}

// Seed populates an empty catalog with demonstration products. It returns the number of
// products created, which is zero when the catalog already holds data.
func Seed(ctx context.Context, catalog Catalog, logger zerolog.Logger) (int, error) {
	existing, err := catalog.CountProducts(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		logger.Info().Int64("count", existing).Msg("products already seeded, skipping")
		return 0, nil
	}

	created := 0
	for _, sp := range demoCatalog {
		inPrice := decimal.RequireFromString(sp.inPrice)
		price := decimal.RequireFromString(sp.price)
		unit, inStock, description := sp.unit, sp.inStock, sp.description

		_, err := catalog.CreateProduct(ctx, models.CreateProductRequest{
			ArticleNo:   sp.articleNo,
			ProductName: sp.productName,
			InPrice:     &inPrice,
			Price:       &price,
			Unit:        &unit,
			InStock:     &inStock,
			Description: &description,
		})
		if err != nil {
			return created, fmt.Errorf("failed to seed product %s: %w", sp.articleNo, err)
		}
		created++
	}

	logger.Info().Int("count", created).Msg("products seeded")
	return created, nil
}
