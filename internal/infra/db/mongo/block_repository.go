package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "pethost/internal/domain/availability"
	domainhosts "pethost/internal/domain/hosts"
)

type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{col: db.Collection(blocksCollection)}
}

func (r *BlockRepository) ByID(ctx context.Context, id domainavailability.BlockID) (*domainavailability.Block, error) {
	var doc blockDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domainavailability.ErrBlockNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BlockRepository) ListByHost(ctx context.Context, hostID domainhosts.HostID) ([]*domainavailability.Block, error) {
	opts := options.Find().SetSort(bson.D{{Key: "range.check_in", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"host_id": string(hostID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainavailability.Block, 0)
	for cur.Next(ctx) {
		var doc blockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *BlockRepository) Save(ctx context.Context, block *domainavailability.Block) error {
	doc := newBlockDocument(block)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *BlockRepository) Delete(ctx context.Context, id domainavailability.BlockID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainavailability.ErrBlockNotFound
	}
	return nil
}

type blockDocument struct {
	ID               string         `bson:"_id"`
	HostID           string         `bson:"host_id"`
	Range            rangeDocument  `bson:"range"`
	Blocked          bool           `bson:"blocked"`
	MaxPetsAvailable *int           `bson:"max_pets_available,omitempty"`
	CustomRate       *moneyDocument `bson:"custom_rate,omitempty"`
	Note             string         `bson:"note,omitempty"`
	CreatedAt        int64          `bson:"created_at"`
}

func newBlockDocument(b *domainavailability.Block) blockDocument {
	doc := blockDocument{
		ID:               string(b.ID),
		HostID:           string(b.HostID),
		Range:            newRangeDocument(b.Range),
		Blocked:          b.Blocked,
		MaxPetsAvailable: b.MaxPetsAvailable,
		Note:             b.Note,
		CreatedAt:        b.CreatedAt.UnixMilli(),
	}
	if b.CustomRate != nil {
		rate := newMoneyDocument(*b.CustomRate)
		doc.CustomRate = &rate
	}
	return doc
}

func (d blockDocument) toAggregate() *domainavailability.Block {
	block := &domainavailability.Block{
		ID:               domainavailability.BlockID(d.ID),
		HostID:           domainhosts.HostID(d.HostID),
		Range:            d.Range.toRange(),
		Blocked:          d.Blocked,
		MaxPetsAvailable: d.MaxPetsAvailable,
		Note:             d.Note,
		CreatedAt:        timestampToTime(d.CreatedAt),
	}
	if d.CustomRate != nil {
		rate := d.CustomRate.toMoney()
		block.CustomRate = &rate
	}
	return block
}

var _ domainavailability.Repository = (*BlockRepository)(nil)
