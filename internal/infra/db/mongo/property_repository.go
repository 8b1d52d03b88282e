package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/internal/app/uow"
	domainproperty "staybook/internal/domain/property"
)

// PropertyRepository stores properties with their booking summaries embedded,
// so an availability check and the booking that depends on it touch one document.
type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection(propertiesCollection)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate()
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	filter := bson.M{"_id": doc.ID, "version": p.Version}
	doc.Version = p.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if isConflict(err) {
			return uow.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return uow.ErrConcurrentUpdate
	}
	p.Version = doc.Version
	return nil
}

type propertyDocument struct {
	ID                string                   `bson:"_id"`
	Name              string                   `bson:"name"`
	Description       string                   `bson:"description"`
	MaxGuests         int                      `bson:"max_guests"`
	BasePricePerNight moneyDocument            `bson:"base_price_per_night"`
	Bookings          []bookingSummaryDocument `bson:"bookings"`
	CreatedAt         int64                    `bson:"created_at"`
	Version           int64                    `bson:"version"`
}

type bookingSummaryDocument struct {
	BookingID string        `bson:"booking_id"`
	Range     rangeDocument `bson:"range"`
	Status    string        `bson:"status"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	summaries := p.Bookings()
	bookings := make([]bookingSummaryDocument, 0, len(summaries))
	for _, s := range summaries {
		bookings = append(bookings, bookingSummaryDocument{
			BookingID: s.BookingID,
			Range:     newRangeDocument(s.Range),
			Status:    string(s.Status),
		})
	}
	return propertyDocument{
		ID:                string(p.ID),
		Name:              p.Name,
		Description:       p.Description,
		MaxGuests:         p.MaxGuests,
		BasePricePerNight: newMoneyDocument(p.BasePricePerNight),
		Bookings:          bookings,
		CreatedAt:         p.CreatedAt.UnixMilli(),
		Version:           p.Version,
	}
}

func (d propertyDocument) toAggregate() (*domainproperty.Property, error) {
	summaries := make([]domainproperty.BookingSummary, 0, len(d.Bookings))
	for _, b := range d.Bookings {
		summaries = append(summaries, domainproperty.BookingSummary{
			BookingID: b.BookingID,
			Range:     b.Range.toRange(),
			Status:    domainproperty.BookingStatus(b.Status),
		})
	}
	return domainproperty.Rehydrate(domainproperty.RehydrateParams{
		CreateParams: domainproperty.CreateParams{
			ID:                domainproperty.ID(d.ID),
			Name:              d.Name,
			Description:       d.Description,
			MaxGuests:         d.MaxGuests,
			BasePricePerNight: d.BasePricePerNight.toMoney(),
			CreatedAt:         timestampToTime(d.CreatedAt),
		},
		Bookings: summaries,
		Version:  d.Version,
	})
}

var _ domainproperty.Repository = (*PropertyRepository)(nil)
