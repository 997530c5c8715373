// Package seeders populates the initial data a fresh deployment needs.
package seeders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"chungtay/app/models"
	"chungtay/app/repositories"
	"chungtay/config"
	"chungtay/pkg/auth"
)

// RunAll executes every seeder. Seeders are idempotent; rerunning is safe.
func RunAll(ctx context.Context) error {
	if err := seedAdmin(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

// seedAdmin creates the administrator account when it does not exist yet.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func seedAdmin(ctx context.Context) error {
	email := config.Get("ADMIN_EMAIL", "admin@chungtay.local")
	password := config.Get("ADMIN_PASSWORD", "changeme123")

	users := repositories.NewUserRepository()

	_, err := users.FindByEmail(ctx, email)
	if err == nil {
		fmt.Printf("admin %s already exists, skipping\n", email)
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Administrator",
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	fmt.Printf("admin %s created\n", email)
	return nil
}
