package treatmentRepo

import (
	"context"
	"errors"
	"fmt"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no treatment matches the lookup.
var ErrNotFound = errors.New("treatment not found")

// TreatmentRepository reads treatments for pricing and booking-status checks.
type TreatmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Treatment, error)
}

// MongoTreatmentRepo implements TreatmentRepository against the treatments
// collection.
type MongoTreatmentRepo struct {
	coll *mongo.Collection
}

func NewMongoTreatmentRepo() *MongoTreatmentRepo {
	return &MongoTreatmentRepo{coll: database.DB().Collection("treatments")}
}

func (repo *MongoTreatmentRepo) GetByID(ctx context.Context, id string) (*models.Treatment, error) {
	var treatment models.Treatment
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&treatment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch treatment %s: %w", id, err)
	}
	return &treatment, nil
}
