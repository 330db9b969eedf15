package settingsRepo

import (
	"context"
	"errors"
	"fmt"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoActiveConfig signals that no active booking configuration exists. The
// booking core treats this as an operator misconfiguration.
var ErrNoActiveConfig = errors.New("no active booking configuration")

// SettingsRepository reads the booking configuration. The core never writes it.
type SettingsRepository interface {
	GetActive(ctx context.Context) (*models.BookingConfig, error)
}

// MongoSettingsRepo implements SettingsRepository against the booking_config
// collection.
type MongoSettingsRepo struct {
	coll *mongo.Collection
}

func NewMongoSettingsRepo() *MongoSettingsRepo {
	return &MongoSettingsRepo{coll: database.DB().Collection("booking_config")}
}

func (repo *MongoSettingsRepo) GetActive(ctx context.Context) (*models.BookingConfig, error) {
	var cfg models.BookingConfig
	err := repo.coll.FindOne(ctx, bson.M{"is_active": true}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoActiveConfig
		}
		return nil, fmt.Errorf("failed to fetch booking configuration: %w", err)
	}
	return &cfg, nil
}
