package bookingRepo

import (
	"context"
	"time"

	"gymbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository is the booking ledger.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Delete removes the booking; ErrNotFound means someone else already did.
	Delete(ctx context.Context, id string) error
	ListBySlotIDs(ctx context.Context, slotIDs []string) ([]models.Booking, error)
	ListBySubscriberInRange(ctx context.Context, subscriberID string, from, to time.Time) ([]models.Booking, error)
	// MarkCheckedIn flips checkedIn false->true; false means it was already set.
	MarkCheckedIn(ctx context.Context, id string, at time.Time) (bool, error)
	// TrySetReminderSent flips reminderSent false->true; only the caller that
	// gets true may send the reminder.
	TrySetReminderSent(ctx context.Context, id string) (bool, error)
	// FindReminderCandidates lists unreminded bookings with slotTime in [from, to].
	FindReminderCandidates(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{coll: db.Collection("bookings")}
}

var _ BookingRepository = (*MongoBookingRepo)(nil)
