package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/security"
)

// EnsureAdminUser seeds a bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured. It is a no-op if the account already exists.
func EnsureAdminUser(ctx context.Context, database *mongo.Database, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users := database.Collection(UsersCollection)
	email := user.NormalizeEmail(cfg.AdminEmail)

	err := users.FindOne(ctx, bson.M{"email": email}).Err()

	if err == nil {
		return nil
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	u := user.User{
		Name:      cfg.AdminName,
		Email:     email,
		Password:  hash,
		Role:      user.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	_, err = users.InsertOne(ctx, u)

	if mongo.IsDuplicateKeyError(err) {
		// another instance seeded it first
		return nil
	}

	return err
}
