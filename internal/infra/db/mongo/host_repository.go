package mongo

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainhosts "pethost/internal/domain/hosts"
	domainpricing "pethost/internal/domain/pricing"
)

type HostRepository struct {
	col *mongo.Collection
}

func NewHostRepository(db *mongo.Database) *HostRepository {
	return &HostRepository{col: db.Collection(hostsCollection)}
}

func (r *HostRepository) ByID(ctx context.Context, id domainhosts.HostID) (*domainhosts.Host, error) {
	return r.findOne(ctx, bson.M{"_id": string(id)})
}

func (r *HostRepository) ByUser(ctx context.Context, userID string) (*domainhosts.Host, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *HostRepository) findOne(ctx context.Context, filter bson.M) (*domainhosts.Host, error) {
	var doc hostDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domainhosts.ErrHostNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *HostRepository) Save(ctx context.Context, h *domainhosts.Host) error {
	doc := newHostDocument(h)
	filter := bson.M{"_id": doc.ID, "version": h.Version}
	doc.Version = h.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if h.Version == 0 {
				return domainhosts.ErrDuplicateHost
			}
			return domainhosts.ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainhosts.ErrConcurrentUpdate
	}
	h.Version = doc.Version
	return nil
}

func (r *HostRepository) Delete(ctx context.Context, id domainhosts.HostID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainhosts.ErrHostNotFound
	}
	return nil
}

// Search pushes the cheap equality filters to Mongo and applies the rest in process.
func (r *HostRepository) Search(ctx context.Context, params domainhosts.SearchParams) ([]*domainhosts.Host, error) {
	filter := bson.M{}
	if !params.IncludeAll {
		filter["active"] = true
	}
	if params.Verified != nil {
		filter["verified"] = *params.Verified
	}
	if params.SuperHost != nil {
		filter["super_host"] = *params.SuperHost
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*domainhosts.Host, 0)
	for cur.Next(ctx) {
		var doc hostDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		h := doc.toAggregate()
		if params.Matches(h) {
			out = append(out, h)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if params.Less(out[i], out[j]) {
			return true
		}
		if params.Less(out[j], out[i]) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type hostDocument struct {
	ID          string          `bson:"_id"`
	UserID      string          `bson:"user_id"`
	Title       string          `bson:"title"`
	Description string          `bson:"description"`
	Address     addressDocument `bson:"address"`
	MaxPets     int             `bson:"max_pets"`
	Pricing     policyDocument  `bson:"pricing"`
	Verified    bool            `bson:"verified"`
	SuperHost   bool            `bson:"super_host"`
	Active      bool            `bson:"active"`
	Metrics     metricsDocument `bson:"metrics"`
	Photos      []photoDocument `bson:"photos"`
	CreatedAt   int64           `bson:"created_at"`
	UpdatedAt   int64           `bson:"updated_at"`
	Version     int64           `bson:"version"`
}

type addressDocument struct {
	Line1   string  `bson:"line1"`
	City    string  `bson:"city"`
	Country string  `bson:"country"`
	Lat     float64 `bson:"lat"`
	Lon     float64 `bson:"lon"`
}

type policyDocument struct {
	BaseDailyRate   moneyDocument      `bson:"base_daily_rate"`
	SizeMultipliers map[string]float64 `bson:"size_multipliers"`
	WeeklyDiscount  float64            `bson:"weekly_discount"`
	MonthlyDiscount float64            `bson:"monthly_discount"`
}

type metricsDocument struct {
	ResponseRate     float64  `bson:"response_rate"`
	CompletionRate   float64  `bson:"completion_rate"`
	AvgResponseHours *float64 `bson:"avg_response_hours,omitempty"`
	Rating           float64  `bson:"rating"`
	TotalReviews     int      `bson:"total_reviews"`
}

type photoDocument struct {
	ID        string `bson:"id"`
	URL       string `bson:"url"`
	Caption   string `bson:"caption"`
	IsPrimary bool   `bson:"is_primary"`
	CreatedAt int64  `bson:"created_at"`
}

func newHostDocument(h *domainhosts.Host) hostDocument {
	multipliers := make(map[string]float64, len(h.Pricing.SizeMultipliers))
	for size, m := range h.Pricing.SizeMultipliers {
		multipliers[string(size)] = m
	}
	photos := make([]photoDocument, 0, len(h.Photos))
	for _, p := range h.Photos {
		photos = append(photos, photoDocument{ID: p.ID, URL: p.URL, Caption: p.Caption, IsPrimary: p.IsPrimary, CreatedAt: p.CreatedAt.UnixMilli()})
	}
	return hostDocument{
		ID:          string(h.ID),
		UserID:      h.UserID,
		Title:       h.Title,
		Description: h.Description,
		Address: addressDocument{
			Line1:   h.Address.Line1,
			City:    h.Address.City,
			Country: h.Address.Country,
			Lat:     h.Address.Lat,
			Lon:     h.Address.Lon,
		},
		MaxPets: h.MaxPets,
		Pricing: policyDocument{
			BaseDailyRate:   newMoneyDocument(h.Pricing.BaseDailyRate),
			SizeMultipliers: multipliers,
			WeeklyDiscount:  h.Pricing.Discounts.Weekly,
			MonthlyDiscount: h.Pricing.Discounts.Monthly,
		},
		Verified:  h.Verified,
		SuperHost: h.SuperHost,
		Active:    h.Active,
		Metrics: metricsDocument{
			ResponseRate:     h.Metrics.ResponseRate,
			CompletionRate:   h.Metrics.CompletionRate,
			AvgResponseHours: h.Metrics.AvgResponseHours,
			Rating:           h.Metrics.Rating,
			TotalReviews:     h.Metrics.TotalReviews,
		},
		Photos:    photos,
		CreatedAt: h.CreatedAt.UnixMilli(),
		UpdatedAt: h.UpdatedAt.UnixMilli(),
		Version:   h.Version,
	}
}

func (d hostDocument) toAggregate() *domainhosts.Host {
	multipliers := make(map[domainpricing.PetSize]float64, len(d.Pricing.SizeMultipliers))
	for size, m := range d.Pricing.SizeMultipliers {
		multipliers[domainpricing.PetSize(size)] = m
	}
	photos := make([]domainhosts.Photo, 0, len(d.Photos))
	for _, p := range d.Photos {
		photos = append(photos, domainhosts.Photo{ID: p.ID, URL: p.URL, Caption: p.Caption, IsPrimary: p.IsPrimary, CreatedAt: timestampToTime(p.CreatedAt)})
	}
	return &domainhosts.Host{
		ID:          domainhosts.HostID(d.ID),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Address: domainhosts.Address{
			Line1:   d.Address.Line1,
			City:    d.Address.City,
			Country: d.Address.Country,
			Lat:     d.Address.Lat,
			Lon:     d.Address.Lon,
		},
		MaxPets: d.MaxPets,
		Pricing: domainpricing.Policy{
			BaseDailyRate:   d.Pricing.BaseDailyRate.toMoney(),
			SizeMultipliers: multipliers,
			Discounts:       domainpricing.DurationDiscounts{Weekly: d.Pricing.WeeklyDiscount, Monthly: d.Pricing.MonthlyDiscount},
		},
		Verified:  d.Verified,
		SuperHost: d.SuperHost,
		Active:    d.Active,
		Metrics: domainhosts.Metrics{
			ResponseRate:     d.Metrics.ResponseRate,
			CompletionRate:   d.Metrics.CompletionRate,
			AvgResponseHours: d.Metrics.AvgResponseHours,
			Rating:           d.Metrics.Rating,
			TotalReviews:     d.Metrics.TotalReviews,
		},
		Photos:    photos,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

var _ domainhosts.Repository = (*HostRepository)(nil)
