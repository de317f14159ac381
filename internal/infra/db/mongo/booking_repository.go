package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainpricing "pethost/internal/domain/pricing"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainbooking.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainbooking.ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

// List returns matches ordered by creation time, oldest first.
func (r *BookingRepository) List(ctx context.Context, f domainbooking.Filter) ([]*domainbooking.Booking, error) {
	filter := bson.M{}
	if f.HostID != "" {
		filter["host_id"] = string(f.HostID)
	}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.PetID != "" {
		filter["pet_id"] = f.PetID
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	if f.Overlaps != nil {
		filter["range.check_in"] = bson.M{"$lt": f.Overlaps.CheckOut.UnixMilli()}
		filter["range.check_out"] = bson.M{"$gt": f.Overlaps.CheckIn.UnixMilli()}
	}
	if f.Exclude != "" {
		filter["_id"] = bson.M{"$ne": string(f.Exclude)}
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
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
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID               string            `bson:"_id"`
	HostID           string            `bson:"host_id"`
	PetID            string            `bson:"pet_id"`
	OwnerID          string            `bson:"owner_id"`
	Range            rangeDocument     `bson:"range"`
	PetSize          string            `bson:"pet_size"`
	AddOns           []string          `bson:"add_ons"`
	Price            breakdownDocument `bson:"price"`
	Status           string            `bson:"status"`
	PaymentStatus    string            `bson:"payment_status"`
	ApprovedAt       *int64            `bson:"approved_at,omitempty"`
	RejectedAt       *int64            `bson:"rejected_at,omitempty"`
	RejectionReason  string            `bson:"rejection_reason,omitempty"`
	CareInstructions string            `bson:"care_instructions"`
	CreatedAt        int64             `bson:"created_at"`
	UpdatedAt        int64             `bson:"updated_at"`
	Version          int64             `bson:"version"`
}

type breakdownDocument struct {
	DailyRate        moneyDocument         `bson:"daily_rate"`
	DurationDays     int                   `bson:"duration_days"`
	SizeMultiplier   float64               `bson:"size_multiplier"`
	BasePrice        moneyDocument         `bson:"base_price"`
	DurationDiscount float64               `bson:"duration_discount"`
	DiscountAmount   moneyDocument         `bson:"discount_amount"`
	AddOns           []addOnChargeDocument `bson:"add_ons"`
	AddOnFee         moneyDocument         `bson:"add_on_fee"`
	Total            moneyDocument         `bson:"total"`
}

type addOnChargeDocument struct {
	ID     string        `bson:"id"`
	Amount moneyDocument `bson:"amount"`
}

func newBreakdownDocument(b domainpricing.Breakdown) breakdownDocument {
	addOns := make([]addOnChargeDocument, 0, len(b.AddOns))
	for _, a := range b.AddOns {
		addOns = append(addOns, addOnChargeDocument{ID: a.ID, Amount: newMoneyDocument(a.Amount)})
	}
	return breakdownDocument{
		DailyRate:        newMoneyDocument(b.DailyRate),
		DurationDays:     b.DurationDays,
		SizeMultiplier:   b.SizeMultiplier,
		BasePrice:        newMoneyDocument(b.BasePrice),
		DurationDiscount: b.DurationDiscount,
		DiscountAmount:   newMoneyDocument(b.DiscountAmount),
		AddOns:           addOns,
		AddOnFee:         newMoneyDocument(b.AddOnFee),
		Total:            newMoneyDocument(b.Total),
	}
}

func (d breakdownDocument) toBreakdown() domainpricing.Breakdown {
	addOns := make([]domainpricing.AddOnCharge, 0, len(d.AddOns))
	for _, a := range d.AddOns {
		addOns = append(addOns, domainpricing.AddOnCharge{ID: a.ID, Amount: a.Amount.toMoney()})
	}
	return domainpricing.Breakdown{
		DailyRate:        d.DailyRate.toMoney(),
		DurationDays:     d.DurationDays,
		SizeMultiplier:   d.SizeMultiplier,
		BasePrice:        d.BasePrice.toMoney(),
		DurationDiscount: d.DurationDiscount,
		DiscountAmount:   d.DiscountAmount.toMoney(),
		AddOns:           addOns,
		AddOnFee:         d.AddOnFee.toMoney(),
		Total:            d.Total.toMoney(),
	}
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:               string(b.ID),
		HostID:           string(b.HostID),
		PetID:            b.PetID,
		OwnerID:          b.OwnerID,
		Range:            newRangeDocument(b.Range),
		PetSize:          string(b.PetSize),
		AddOns:           append([]string(nil), b.AddOns...),
		Price:            newBreakdownDocument(b.Price),
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		ApprovedAt:       optionalTimestamp(b.ApprovedAt),
		RejectedAt:       optionalTimestamp(b.RejectedAt),
		RejectionReason:  b.RejectionReason,
		CareInstructions: b.CareInstructions,
		CreatedAt:        b.CreatedAt.UnixMilli(),
		UpdatedAt:        b.UpdatedAt.UnixMilli(),
		Version:          b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:               domainbooking.BookingID(d.ID),
		HostID:           domainhosts.HostID(d.HostID),
		PetID:            d.PetID,
		OwnerID:          d.OwnerID,
		Range:            d.Range.toRange(),
		PetSize:          domainpricing.PetSize(d.PetSize),
		AddOns:           d.AddOns,
		Price:            d.Price.toBreakdown(),
		Status:           domainbooking.Status(d.Status),
		PaymentStatus:    domainbooking.PaymentStatus(d.PaymentStatus),
		ApprovedAt:       optionalTime(d.ApprovedAt),
		RejectedAt:       optionalTime(d.RejectedAt),
		RejectionReason:  d.RejectionReason,
		CareInstructions: d.CareInstructions,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
