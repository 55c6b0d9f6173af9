package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// superheroDocument is the stored shape. Field names stay compatible with
// documents written by the existing Node.js (mongoose) service.
type superheroDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Nickname          string             `bson:"nickname"`
	RealName          string             `bson:"real_name"`
	OriginDescription string             `bson:"origin_description"`
	Superpowers       []string           `bson:"superpowers"`
	CatchPhrase       string             `bson:"catch_phrase"`
	Images            []string           `bson:"images"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (d *superheroDocument) toModel() *model.Superhero {
	hero := &model.Superhero{
		ID:                d.ID.Hex(),
		Nickname:          d.Nickname,
		RealName:          d.RealName,
		OriginDescription: d.OriginDescription,
		Superpowers:       d.Superpowers,
		CatchPhrase:       d.CatchPhrase,
		Images:            d.Images,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	hero.Normalize()
	return hero
}

func documentFromModel(hero *model.Superhero) *superheroDocument {
	return &superheroDocument{
		Nickname:          hero.Nickname,
		RealName:          hero.RealName,
		OriginDescription: hero.OriginDescription,
		Superpowers:       hero.Superpowers,
		CatchPhrase:       hero.CatchPhrase,
		Images:            hero.Images,
	}
}

// updateDocument builds the $set stage for a partial update.
func updateDocument(patch *model.SuperheroPatch, now time.Time) bson.D {
	set := bson.D{}
	if patch.Nickname != nil {
		set = append(set, bson.E{Key: "nickname", Value: *patch.Nickname})
	}
	if patch.RealName != nil {
		set = append(set, bson.E{Key: "real_name", Value: *patch.RealName})
	}
	if patch.OriginDescription != nil {
		set = append(set, bson.E{Key: "origin_description", Value: *patch.OriginDescription})
	}
	if patch.Superpowers != nil {
		set = append(set, bson.E{Key: "superpowers", Value: *patch.Superpowers})
	}
	if patch.CatchPhrase != nil {
		set = append(set, bson.E{Key: "catch_phrase", Value: *patch.CatchPhrase})
	}
	if patch.Images != nil {
		set = append(set, bson.E{Key: "images", Value: *patch.Images})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: now})

	return bson.D{{Key: "$set", Value: set}}
}

// MongoSuperheroRepository stores superheroes in a MongoDB collection.
type MongoSuperheroRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoSuperheroRepository(db *mongo.Database, collection string) *MongoSuperheroRepository {
	return &MongoSuperheroRepository{
		collection: db.Collection(collection),
		now:        mongoNow,
	}
}

// BSON dates carry millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *MongoSuperheroRepository) Create(ctx context.Context, hero *model.Superhero) (*model.Superhero, error) {
	doc := documentFromModel(hero)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = r.now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert superhero: %w", err)
	}

	return doc.toModel(), nil
}

func (r *MongoSuperheroRepository) List(ctx context.Context, offset int64, limit int) ([]model.SuperheroSummary, error) {
	opts := options.Find().
		SetSkip(offset).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.D{{Key: "nickname", Value: 1}, {Key: "images", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list superheroes: %w", err)
	}

	var docs []superheroDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode superheroes: %w", err)
	}

	summaries := make([]model.SuperheroSummary, 0, len(docs))
	for i := range docs {
		summaries = append(summaries, docs[i].toModel().Summary())
	}
	return summaries, nil
}

func (r *MongoSuperheroRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count superheroes: %w", err)
	}
	return total, nil
}

func (r *MongoSuperheroRepository) GetByID(ctx context.Context, id string) (*model.Superhero, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSuperheroNotFound
	}

	var doc superheroDocument
	if err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mongoNotFound(err)
	}
	return doc.toModel(), nil
}

func (r *MongoSuperheroRepository) Update(ctx context.Context, id string, patch *model.SuperheroPatch) (*model.Superhero, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrSuperheroNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc superheroDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, updateDocument(patch, r.now()), opts).Decode(&doc)
	if err != nil {
		return nil, mongoNotFound(err)
	}
	return doc.toModel(), nil
}

func (r *MongoSuperheroRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrSuperheroNotFound
	}

	if err := r.collection.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Err(); err != nil {
		return mongoNotFound(err)
	}
	return nil
}

func mongoNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrSuperheroNotFound
	}
	return err
}
