package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicbook/database"
	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no booking matches the lookup.
var ErrNotFound = errors.New("booking not found")

// countableSessionStatuses are the session states that occupy slot capacity.
var countableSessionStatuses = []string{
	models.SessionStatusPending,
	models.SessionStatusConfirmed,
	models.SessionStatusRescheduled,
}

// MongoBookingRepo implements BookingRepository against the bookings collection.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{coll: database.DB().Collection("bookings")}
}

func (repo *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// slotMatch builds the filter for bookings holding a session-date entry at the
// requested slot. The treatment filter is applied only when a treatment is
// named.
func slotMatch(clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) bson.M {
	match := bson.M{
		"clinic_id": clinicID,
		"session_dates": bson.M{
			"$elemMatch": bson.M{
				"date":   bson.M{"$gte": dayStart, "$lt": dayEnd},
				"time":   timeOfDay,
				"status": bson.M{"$in": countableSessionStatuses},
			},
		},
	}
	if treatmentID != "" {
		match["treatment_id"] = treatmentID
	}
	return match
}

func (repo *MongoBookingRepo) CountBookedSessionSlots(ctx context.Context, clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: slotMatch(clinicID, treatmentID, dayStart, dayEnd, timeOfDay)}},
		{{Key: "$unwind", Value: "$session_dates"}},
		{{Key: "$match", Value: bson.M{
			"session_dates.date":   bson.M{"$gte": dayStart, "$lt": dayEnd},
			"session_dates.time":   timeOfDay,
			"session_dates.status": bson.M{"$in": countableSessionStatuses},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("error decoding aggregation result: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (repo *MongoBookingRepo) ListBookedSessionEntries(ctx context.Context, clinicID, treatmentID string, dayStart, dayEnd time.Time, timeOfDay string) ([]models.SlotBookingDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: slotMatch(clinicID, treatmentID, dayStart, dayEnd, timeOfDay)}},
		{{Key: "$unwind", Value: "$session_dates"}},
		{{Key: "$match", Value: bson.M{
			"session_dates.date":   bson.M{"$gte": dayStart, "$lt": dayEnd},
			"session_dates.time":   timeOfDay,
			"session_dates.status": bson.M{"$in": countableSessionStatuses},
		}}},
		{{Key: "$project", Value: bson.M{
			"booking_id":     "$id",
			"booking_number": "$booking_number",
			"session_number": "$session_dates.session_number",
			"status":         "$session_dates.status",
		}}},
	}
	cursor, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregation error: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.SlotBookingDetail
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding slot entries: %w", err)
	}
	return entries, nil
}

func (repo *MongoBookingRepo) SetConfirmed(ctx context.Context, id, source string, verifiedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"session_status":      models.BookingStatusConfirmed,
			"booking_source":      source,
			"payment_verified_at": verifiedAt,
			"updated_at":          time.Now(),
		},
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to confirm booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoBookingRepo) SetCancelled(ctx context.Context, id string, details models.CancellationDetails) error {
	update := bson.M{
		"$set": bson.M{
			"session_status":           models.BookingStatusCancelled,
			"session_dates.$[].status": models.SessionStatusCancelled,
			"cancellation":             details,
			"updated_at":               time.Now(),
		},
	}
	res, err := repo.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoBookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"session_status": models.BookingStatusPaymentNotCompleted,
		"created_at":     bson.M{"$lt": cutoff},
	}
	cursor, err := repo.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pending bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding stale bookings: %w", err)
	}
	return bookings, nil
}
