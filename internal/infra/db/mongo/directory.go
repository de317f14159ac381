package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pethost/internal/app/policies"
	domainpricing "pethost/internal/domain/pricing"
)

// Directory reads the user and pet projections kept by the identity and pet services.
type Directory struct {
	users *mongo.Collection
	pets  *mongo.Collection
}

func NewDirectory(db *mongo.Database) *Directory {
	return &Directory{users: db.Collection(usersCollection), pets: db.Collection(petsCollection)}
}

type userDocument struct {
	ID       string `bson:"_id"`
	Verified bool   `bson:"verified"`
	Active   bool   `bson:"active"`
}

type petDocument struct {
	ID              string `bson:"_id"`
	OwnerID         string `bson:"owner_id"`
	Name            string `bson:"name"`
	Size            string `bson:"size"`
	Active          bool   `bson:"active"`
	BehavioralNotes string `bson:"behavioral_notes"`
}

func (d *Directory) User(ctx context.Context, id string) (policies.User, error) {
	var doc userDocument
	if err := d.users.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return policies.User{}, policies.ErrUserNotFound
		}
		return policies.User{}, err
	}
	return policies.User{ID: doc.ID, Verified: doc.Verified, Active: doc.Active}, nil
}

func (d *Directory) Pet(ctx context.Context, id string) (policies.Pet, error) {
	var doc petDocument
	if err := d.pets.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return policies.Pet{}, policies.ErrPetNotFound
		}
		return policies.Pet{}, err
	}
	return policies.Pet{
		ID:              doc.ID,
		OwnerID:         doc.OwnerID,
		Name:            doc.Name,
		Size:            domainpricing.NormalizeSize(doc.Size),
		Active:          doc.Active,
		BehavioralNotes: doc.BehavioralNotes,
	}, nil
}

var (
	_ policies.UserDirectory = (*Directory)(nil)
	_ policies.PetRegistry   = (*Directory)(nil)
)
