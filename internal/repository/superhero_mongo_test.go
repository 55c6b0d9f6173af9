package repository

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/superhero-catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUpdateDocumentOnlySetsPresentFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	nickname := "Superman"
	powers := []string{"flight"}

	update := updateDocument(&model.SuperheroPatch{Nickname: &nickname, Superpowers: &powers}, now)

	require.Len(t, update, 1)
	assert.Equal(t, "$set", update[0].Key)

	set, ok := update[0].Value.(bson.D)
	require.True(t, ok)
	assert.Equal(t, bson.D{
		{Key: "nickname", Value: "Superman"},
		{Key: "superpowers", Value: []string{"flight"}},
		{Key: "updatedAt", Value: now},
	}, set)
}

func TestUpdateDocumentEmptyPatchBumpsUpdatedAt(t *testing.T) {
	now := time.Now()
	update := updateDocument(&model.SuperheroPatch{}, now)

	set := update[0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "updatedAt", Value: now}}, set)
}

func TestDocumentRoundTripUsesMongooseFieldNames(t *testing.T) {
	doc := &superheroDocument{
		ID:          primitive.NewObjectID(),
		Nickname:    "Superman",
		RealName:    "Clark Kent",
		CatchPhrase: "Up, up and away",
	}

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	for _, key := range []string{"_id", "nickname", "real_name", "origin_description", "superpowers", "catch_phrase", "images", "createdAt", "updatedAt"} {
		assert.Contains(t, m, key)
	}

	hero := doc.toModel()
	assert.Equal(t, doc.ID.Hex(), hero.ID)
	assert.NotNil(t, hero.Superpowers)
	assert.NotNil(t, hero.Images)
}

func TestProjectedDocumentSummary(t *testing.T) {
	doc := superheroDocument{ID: primitive.NewObjectID(), Nickname: "Batman"}
	summary := doc.toModel().Summary()

	assert.Equal(t, doc.ID.Hex(), summary.ID)
	assert.Nil(t, summary.Image)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newMockRepository(mt *mtest.T) *MongoSuperheroRepository {
	return &MongoSuperheroRepository{
		collection: mt.Coll,
		now:        func() time.Time { return fixedNow },
	}
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func heroDocument(id primitive.ObjectID, nickname string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "nickname", Value: nickname},
		{Key: "real_name", Value: "Clark Kent"},
		{Key: "origin_description", Value: "Krypton"},
		{Key: "superpowers", Value: bson.A{"flight"}},
		{Key: "catch_phrase", Value: "Up, up and away"},
		{Key: "images", Value: bson.A{"https://example.com/1.png", "https://example.com/2.png"}},
		{Key: "createdAt", Value: fixedNow},
		{Key: "updatedAt", Value: fixedNow},
	}
}

func TestMongoSuperheroRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create inserts a document with timestamps", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		hero, err := repo.Create(ctx, &model.Superhero{Nickname: "Superman", RealName: "Clark Kent"})
		require.NoError(mt, err)

		assert.True(mt, primitive.IsValidObjectID(hero.ID))
		assert.Equal(mt, fixedNow, hero.CreatedAt)
		assert.Equal(mt, fixedNow, hero.UpdatedAt)
		assert.Equal(mt, []string{}, hero.Superpowers)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		inserted := started.Command.Lookup("documents", "0")
		assert.Equal(mt, "Clark Kent", inserted.Document().Lookup("real_name").StringValue())
		assert.Equal(mt, hero.ID, inserted.Document().Lookup("_id").ObjectID().Hex())
	})

	mt.Run("list pages by id with a projection", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "nickname", Value: "Superman"}, {Key: "images", Value: bson.A{"https://example.com/s.png"}}},
			bson.D{{Key: "_id", Value: second}, {Key: "nickname", Value: "Batman"}},
		))

		summaries, err := repo.List(ctx, 5, 5)
		require.NoError(mt, err)
		require.Len(mt, summaries, 2)
		assert.Equal(mt, first.Hex(), summaries[0].ID)
		require.NotNil(mt, summaries[0].Image)
		assert.Equal(mt, "https://example.com/s.png", *summaries[0].Image)
		assert.Nil(mt, summaries[1].Image)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(mt, int64(5), cmd.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(5), cmd.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(1), cmd.Lookup("sort", "_id").AsInt64())
		assert.Equal(mt, int64(1), cmd.Lookup("projection", "nickname").AsInt64())
		assert.Equal(mt, int64(1), cmd.Lookup("projection", "images").AsInt64())
	})

	mt.Run("list of an empty page is not nil", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		summaries, err := repo.List(ctx, 100, 5)
		require.NoError(mt, err)
		assert.NotNil(mt, summaries)
		assert.Empty(mt, summaries)
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(7)}},
		))

		total, err := repo.Count(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, int64(7), total)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, heroDocument(id, "Superman")))

		hero, err := repo.GetByID(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), hero.ID)
		assert.Equal(mt, []string{"flight"}, hero.Superpowers)
		assert.Equal(mt, id, mt.GetStartedEvent().Command.Lookup("filter", "_id").ObjectID())
	})

	mt.Run("get by id of a missing document", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrSuperheroNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		repo := newMockRepository(mt)

		_, err := repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(mt, err, ErrSuperheroNotFound)
		assert.ErrorIs(mt, repo.Delete(ctx, "not-an-id"), ErrSuperheroNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("update returns the new document", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: heroDocument(id, "Kal-El")},
		})

		nickname := "Kal-El"
		hero, err := repo.Update(ctx, id.Hex(), &model.SuperheroPatch{Nickname: &nickname})
		require.NoError(mt, err)
		assert.Equal(mt, "Kal-El", hero.Nickname)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		cmd := started.Command
		assert.True(mt, cmd.Lookup("new").Boolean())
		assert.Equal(mt, "Kal-El", cmd.Lookup("update", "$set", "nickname").StringValue())
		assert.Equal(mt, fixedNow, cmd.Lookup("update", "$set", "updatedAt").Time().UTC())
	})

	mt.Run("update of a missing document", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Update(ctx, primitive.NewObjectID().Hex(), &model.SuperheroPatch{})
		assert.ErrorIs(mt, err, ErrSuperheroNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: heroDocument(id, "Superman")}})

		require.NoError(mt, repo.Delete(ctx, id.Hex()))
		assert.True(mt, mt.GetStartedEvent().Command.Lookup("remove").Boolean())
	})

	mt.Run("delete of a missing document", func(mt *mtest.T) {
		repo := newMockRepository(mt)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		assert.ErrorIs(mt, repo.Delete(ctx, primitive.NewObjectID().Hex()), ErrSuperheroNotFound)
	})
}
