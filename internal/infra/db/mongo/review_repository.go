package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(reviewsCollection)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreviews.ReviewID) (*domainreviews.Review, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	return r.findOne(ctx, bson.M{"booking_id": string(bookingID)})
}

func (r *ReviewRepository) findOne(ctx context.Context, filter bson.M) (*domainreviews.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domainreviews.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// ListByHost includes hidden reviews; callers filter for display.
func (r *ReviewRepository) ListByHost(ctx context.Context, hostID domainhosts.HostID) ([]*domainreviews.Review, error) {
	cur, err := r.col.Find(ctx, bson.M{"host_id": string(hostID)}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainreviews.Review, 0)
	for cur.Next(ctx) {
		var doc reviewDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	doc := newReviewDocument(review)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainreviews.ErrDuplicate
	}
	return err
}

type reviewDocument struct {
	ID              string `bson:"_id"`
	BookingID       string `bson:"booking_id"`
	HostID          string `bson:"host_id"`
	AuthorID        string `bson:"author_id"`
	CareQuality     int    `bson:"care_quality"`
	Communication   int    `bson:"communication"`
	Cleanliness     int    `bson:"cleanliness"`
	Value           int    `bson:"value"`
	Overall         int    `bson:"overall"`
	Text            string `bson:"text"`
	HostResponse    string `bson:"host_response,omitempty"`
	HostRespondedAt *int64 `bson:"host_responded_at,omitempty"`
	Hidden          bool   `bson:"hidden"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
}

func newReviewDocument(r *domainreviews.Review) reviewDocument {
	return reviewDocument{
		ID:              string(r.ID),
		BookingID:       string(r.BookingID),
		HostID:          string(r.HostID),
		AuthorID:        r.AuthorID,
		CareQuality:     r.Ratings.CareQuality,
		Communication:   r.Ratings.Communication,
		Cleanliness:     r.Ratings.Cleanliness,
		Value:           r.Ratings.Value,
		Overall:         r.Ratings.Overall,
		Text:            r.Text,
		HostResponse:    r.HostResponse,
		HostRespondedAt: optionalTimestamp(r.HostRespondedAt),
		Hidden:          r.Hidden,
		CreatedAt:       r.CreatedAt.UnixMilli(),
		UpdatedAt:       r.UpdatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		HostID:    domainhosts.HostID(d.HostID),
		AuthorID:  d.AuthorID,
		Ratings: domainreviews.Ratings{
			CareQuality:   d.CareQuality,
			Communication: d.Communication,
			Cleanliness:   d.Cleanliness,
			Value:         d.Value,
			Overall:       d.Overall,
		},
		Text:            d.Text,
		HostResponse:    d.HostResponse,
		HostRespondedAt: optionalTime(d.HostRespondedAt),
		Hidden:          d.Hidden,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
	}
}

var _ domainreviews.Repository = (*ReviewRepository)(nil)
