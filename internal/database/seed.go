package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"sitecms/internal/models"
	"sitecms/internal/versioning"
)

// SeedOptions configures development seeding.
type SeedOptions struct {
	SiteID        string
	AdminEmail    string
	AdminPassword string
}

// Seed populates the database with initial development data: a default
// admin user if none exists, and a handful of sample items for the site
// if it has no projects yet. Content goes through the versioning service
// so seeded rows obey the same invariants as edited ones.
func Seed(ctx context.Context, db *sql.DB, content *versioning.Service, opts SeedOptions) error {
	if err := EnsureAdmin(ctx, db, opts); err != nil {
		return err
	}
	return SeedContent(ctx, content, opts.SiteID)
}

// EnsureAdmin creates the configured admin account when the users table is
// empty. It runs on every start, not only in development.
func EnsureAdmin(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, opts.AdminEmail, string(hash), "Admin", models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", opts.AdminEmail)
	return nil
}

// SeedContent creates sample content for siteID unless the site already
// has projects. It works against any repository behind the service.
func SeedContent(ctx context.Context, content *versioning.Service, siteID string) error {
	existing, err := content.List(ctx, versioning.ListFilter{
		SiteID:      siteID,
		ContentType: models.ContentTypeProjects,
	})
	if err != nil {
		return fmt.Errorf("seed check content: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("content already seeded, skipping", "site", siteID)
		return nil
	}

	samples := []versioning.CreateParams{
		{
			ContentType: models.ContentTypeProjects,
			Status:      models.ContentStatusPublished,
			Fields: models.Fields{
				"title":      "Brand Refresh",
				"client":     "Northwind",
				"summary":    "A new visual identity and marketing site.",
				"coverImage": "",
				"tags":       []any{"branding", "web"},
			},
		},
		{
			ContentType: models.ContentTypeProjects,
			Status:      models.ContentStatusDraft,
			Fields: models.Fields{
				"title":   "Mobile Banking App",
				"client":  "Contoso Bank",
				"summary": "Work in progress case study.",
			},
		},
		{
			ContentType: models.ContentTypeTestimonials,
			Status:      models.ContentStatusPublished,
			Fields: models.Fields{
				"name":    "Jordan Lee",
				"role":    "CMO, Northwind",
				"quote":   "They shipped our new site ahead of schedule.",
				"company": "Northwind",
			},
		},
		{
			ContentType: models.ContentTypeTeam,
			Status:      models.ContentStatusPublished,
			Fields: models.Fields{
				"name":  "Sam Rivera",
				"role":  "Design Lead",
				"bio":   "",
				"photo": "",
			},
		},
	}

	for _, p := range samples {
		p.SiteID = siteID
		if _, err := content.Create(ctx, p); err != nil {
			return fmt.Errorf("seed %s: %w", p.ContentType, err)
		}
	}

	slog.Info("database seeded with sample content", "site", siteID, "items", len(samples))
	return nil
}
