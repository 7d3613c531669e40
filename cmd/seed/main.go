package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nordicgeo/geoshop-backend/internal/products"
	"github.com/nordicgeo/geoshop-backend/pkg/config"
	"github.com/nordicgeo/geoshop-backend/pkg/db"
	"github.com/nordicgeo/geoshop-backend/pkg/db/models"
	"github.com/nordicgeo/geoshop-backend/pkg/enums"
	"github.com/nordicgeo/geoshop-backend/pkg/logger"
	"github.com/nordicgeo/geoshop-backend/pkg/migrate"
	"github.com/nordicgeo/geoshop-backend/pkg/security"
)

// Seeds the demo catalog: an admin account, a handful of surveying
// instruments, the storefront banners, and a product guide article.
// Safe to run repeatedly; rows are matched on their unique columns.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(context.Background(), "refusing to seed a production database", nil)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})
	gormDB := dbClient.DB()

	if err := seedAdmin(gormDB, cfg.Password); err != nil {
		logg.Error(ctx, "failed to seed admin user", err)
		os.Exit(1)
	}
	if err := seedCatalog(gormDB); err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}
	if err := seedBanners(gormDB); err != nil {
		logg.Error(ctx, "failed to seed banners", err)
		os.Exit(1)
	}
	if err := seedPosts(gormDB); err != nil {
		logg.Error(ctx, "failed to seed posts", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seed complete")
}

func seedAdmin(gormDB *gorm.DB, cfg config.PasswordConfig) error {
	var count int64
	if err := gormDB.Model(&models.User{}).Where("email = ?", "admin@nordicgeo.example").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := security.HashPassword("admin-password", cfg)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        "admin@nordicgeo.example",
		PasswordHash: hash,
		FirstName:    "Site",
		LastName:     "Admin",
		Role:         enums.UserRoleAdmin,
	}
	return gormDB.Create(&admin).Error
}

func seedCatalog(gormDB *gorm.DB) error {
	rows := []models.Product{
		{
			Name:        "Trimble R12i GNSS Receiver",
			Description: "Multi-constellation GNSS rover with tilt compensation.",
			Category:    enums.ProductCategoryGNSSReceiver,
			Brand:       "Trimble",
			PriceCents:  185_000_00,
			Stock:       4,
			Images:      []string{"products/trimble-r12i.jpg"},
			IsPublished: true,
		},
		{
			Name:        "Leica TS16 Total Station",
			Description: "Self-learning robotic total station, 1\" angular accuracy.",
			Category:    enums.ProductCategoryTotalStation,
			Brand:       "Leica",
			PriceCents:  240_000_00,
			Stock:       2,
			Images:      []string{"products/leica-ts16.jpg"},
			IsPublished: true,
		},
		{
			Name:        "Topcon AT-B4A Automatic Level",
			Description: "24x magnification builder's level for site work.",
			Category:    enums.ProductCategoryLevel,
			Brand:       "Topcon",
			PriceCents:  4_500_00,
			Stock:       25,
			Images:      []string{"products/topcon-atb4a.jpg"},
			IsPublished: true,
		},
		{
			Name:        "DJI Matrice 350 RTK",
			Description: "Survey drone platform with RTK module and dual battery bay.",
			Category:    enums.ProductCategoryDrone,
			Brand:       "DJI",
			PriceCents:  95_000_00,
			Stock:       6,
			Images:      []string{"products/dji-m350.jpg"},
			IsPublished: true,
		},
		{
			Name:        "Carbon Fiber Prism Pole 2.6m",
			Description: "Lightweight pole with dual graduation and adjustable tip.",
			Category:    enums.ProductCategoryAccessory,
			Brand:       "SECO",
			PriceCents:  650_00,
			Stock:       40,
			Images:      []string{"products/seco-pole.jpg"},
			IsPublished: true,
		},
		{
			Name:        "Leica GS18 T GNSS Receiver",
			Description: "Tilt-compensated rover awaiting pricing review.",
			Category:    enums.ProductCategoryGNSSReceiver,
			Brand:       "Leica",
			PriceCents:  210_000_00,
			Stock:       0,
			Images:      []string{"products/leica-gs18t.jpg"},
			IsPublished: false,
		},
	}

	for i := range rows {
		rows[i].Slug = products.Slugify(rows[i].Name)
		if err := gormDB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedBanners(gormDB *gorm.DB) error {
	// Banners have no natural key; skip when any already exist.
	var count int64
	if err := gormDB.Model(&models.Banner{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rows := []models.Banner{
		{
			Title:     "GNSS season sale",
			ImageURL:  "https://cdn.nordicgeo.example/banners/gnss-sale.jpg",
			LinkURL:   "/products?category=gnss_receiver",
			Placement: enums.BannerPlacementHero,
			IsActive:  true,
		},
		{
			Title:     "Free calibration with every total station",
			ImageURL:  "https://cdn.nordicgeo.example/banners/calibration.jpg",
			LinkURL:   "/products?category=total_station",
			Placement: enums.BannerPlacementPromo,
			IsActive:  true,
		},
	}
	for i := range rows {
		if err := gormDB.Create(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPosts(gormDB *gorm.DB) error {
	now := time.Now().UTC()
	post := models.Post{
		Title:       "Choosing your first GNSS receiver",
		Excerpt:     "RTK, tilt compensation, and what actually matters on site.",
		Body:        "A practical guide to picking a rover for cadastral and construction work.",
		Status:      enums.PostStatusPublished,
		PublishedAt: &now,
	}
	post.Slug = products.Slugify(post.Title)
	return gormDB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&post).Error
}
