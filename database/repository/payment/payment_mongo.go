package paymentRepo

import (
	"context"
	"errors"
	"fmt"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no payment matches the lookup.
var ErrNotFound = errors.New("payment not found")

// MongoPaymentRepo implements PaymentRepository against the payments collection.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepo() *MongoPaymentRepo {
	return &MongoPaymentRepo{coll: database.DB().Collection("payments")}
}

func (repo *MongoPaymentRepo) Insert(ctx context.Context, payment *models.Payment) error {
	if _, err := repo.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("insert payment failed: %w", err)
	}
	return nil
}

func (repo *MongoPaymentRepo) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	var payment models.Payment
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment %s: %w", id, err)
	}
	return &payment, nil
}

func (repo *MongoPaymentRepo) SetBookingRef(ctx context.Context, paymentID, bookingID string) error {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": paymentID},
		bson.M{"$set": bson.M{"booking_id": bookingID}},
	)
	if err != nil {
		return fmt.Errorf("failed to set booking reference on payment %s: %w", paymentID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoPaymentRepo) MarkCompleted(ctx context.Context, id string, completion models.PaymentCompletion) error {
	update := bson.M{
		"$set": bson.M{
			"status":                  models.PaymentStatusCompleted,
			"gateway_payment_id":      completion.GatewayPaymentID,
			"signature":               completion.Signature,
			"completed_at":            completion.CompletedAt,
			"verified_at":             completion.VerifiedAt,
			"verification_ip":         completion.IP,
			"verification_user_agent": completion.UserAgent,
		},
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to complete payment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoPaymentRepo) MarkFailed(ctx context.Context, id, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":         models.PaymentStatusFailed,
			"failure_reason": reason,
		},
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s failed: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
