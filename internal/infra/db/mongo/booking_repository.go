package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	domainproperty "staybook/internal/domain/property"
	"staybook/internal/domain/refund"
	domainuser "staybook/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if isConflict(err) {
			return uow.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return uow.ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "range.start", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID            string                `bson:"_id"`
	PropertyID    string                `bson:"property_id"`
	GuestID       string                `bson:"guest_id"`
	Range         rangeDocument         `bson:"range"`
	GuestCount    int                   `bson:"guest_count"`
	TotalPrice    moneyDocument         `bson:"total_price"`
	Status        string                `bson:"status"`
	PartialRefund int                   `bson:"partial_refund_percent"`
	Cancellation  *cancellationDocument `bson:"cancellation,omitempty"`
	CreatedAt     int64                 `bson:"created_at"`
	Version       int64                 `bson:"version"`
}

type cancellationDocument struct {
	At            int64         `bson:"at"`
	DaysInAdvance int           `bson:"days_in_advance"`
	Rule          string        `bson:"rule"`
	Refund        moneyDocument `bson:"refund"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:            string(b.ID),
		PropertyID:    string(b.PropertyID),
		GuestID:       string(b.GuestID),
		Range:         newRangeDocument(b.Range),
		GuestCount:    b.GuestCount,
		TotalPrice:    newMoneyDocument(b.TotalPrice),
		Status:        string(b.Status),
		PartialRefund: b.Policy.PartialPercent,
		CreatedAt:     b.CreatedAt.UnixMilli(),
		Version:       b.Version,
	}
	if c := b.Cancellation; c != nil {
		doc.Cancellation = &cancellationDocument{
			At:            c.At.UnixMilli(),
			DaysInAdvance: c.DaysInAdvance,
			Rule:          c.Rule.String(),
			Refund:        newMoneyDocument(c.Refund),
		}
	}
	return doc
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	var cancellation *domainbooking.Cancellation
	if c := d.Cancellation; c != nil {
		rule, err := refund.ParseRule(c.Rule)
		if err != nil {
			return nil, err
		}
		cancellation = &domainbooking.Cancellation{
			At:            timestampToTime(c.At),
			DaysInAdvance: c.DaysInAdvance,
			Rule:          rule,
			Refund:        c.Refund.toMoney(),
		}
	}
	return domainbooking.Rehydrate(domainbooking.RehydrateParams{
		ID:           domainbooking.ID(d.ID),
		PropertyID:   domainproperty.ID(d.PropertyID),
		GuestID:      domainuser.ID(d.GuestID),
		Range:        d.Range.toRange(),
		GuestCount:   d.GuestCount,
		TotalPrice:   d.TotalPrice.toMoney(),
		Status:       domainbooking.Status(d.Status),
		Policy:       refund.Policy{PartialPercent: d.PartialRefund},
		Cancellation: cancellation,
		CreatedAt:    timestampToTime(d.CreatedAt),
		Version:      d.Version,
	})
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
