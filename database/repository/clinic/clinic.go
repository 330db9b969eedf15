package clinicRepo

import (
	"context"
	"errors"
	"fmt"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no clinic matches the lookup.
var ErrNotFound = errors.New("clinic not found")

// ClinicRepository reads clinics to populate booking responses.
type ClinicRepository interface {
	GetByID(ctx context.Context, id string) (*models.Clinic, error)
}

// MongoClinicRepo implements ClinicRepository against the clinics collection.
type MongoClinicRepo struct {
	coll *mongo.Collection
}

func NewMongoClinicRepo() *MongoClinicRepo {
	return &MongoClinicRepo{coll: database.DB().Collection("clinics")}
}

func (repo *MongoClinicRepo) GetByID(ctx context.Context, id string) (*models.Clinic, error) {
	var clinic models.Clinic
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&clinic)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch clinic %s: %w", id, err)
	}
	return &clinic, nil
}
