package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"pet-harness-store/models"
)

func TestMongoStoreCreateDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns generated id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore(mt.DB)

		price := 19.99
		p := models.NewProduct()
		p.Title = "Classic Harness"
		p.Price = &price
		p.Species = "dog"

		id, err := s.CreateDocument(context.Background(), CategoryProduct, p)
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		assert.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		assert.Equal(mt, CategoryProduct, started.Command.Lookup("insert").StringValue())

		sent := started.Command.Lookup("documents", "0").Document()
		assert.Equal(mt, "Classic Harness", sent.Lookup("title").StringValue())
		assert.Equal(mt, id, sent.Lookup("_id").ObjectID().Hex())
		_, err = sent.LookupErr("created_at")
		assert.NoError(mt, err)
	})

	mt.Run("discards record id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		s := NewMongoStore(mt.DB)

		id, err := s.CreateDocument(context.Background(), CategoryOrder, bson.M{"_id": "client-chosen", "total": 3.5})
		require.NoError(mt, err)
		assert.NotEqual(mt, "client-chosen", id)
	})

	mt.Run("insert rejected", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		s := NewMongoStore(mt.DB)

		_, err := s.CreateDocument(context.Background(), CategoryOrder, bson.M{"total": 1.0})
		var serr *StorageError
		require.ErrorAs(mt, err, &serr)
		assert.Equal(mt, "insert", serr.Op)
		assert.Equal(mt, CategoryOrder, serr.Category)
	})

	mt.Run("unencodable record", func(mt *mtest.T) {
		s := NewMongoStore(mt.DB)

		_, err := s.CreateDocument(context.Background(), CategoryOrder, 42)
		var serr *StorageError
		require.ErrorAs(mt, err, &serr)
		assert.Equal(mt, "encode", serr.Op)
	})
}

func TestMongoStoreGetDocuments(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns raw documents with ids", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.product", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: id}, {Key: "title", Value: "Classic Harness"}, {Key: "species", Value: "dog"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Bad"}},
		))
		s := NewMongoStore(mt.DB)

		docs, err := s.GetDocuments(context.Background(), CategoryProduct, ProductFilter("dog", "M"))
		require.NoError(mt, err)
		require.Len(mt, docs, 2)
		assert.Equal(mt, id, docs[0]["_id"])

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		filter := started.Command.Lookup("filter").Document()
		assert.Equal(mt, "dog", filter.Lookup("species").StringValue())
		assert.Equal(mt, "M", filter.Lookup("sizes", "$in", "0").StringValue())
	})

	mt.Run("empty result is an empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.product", mtest.FirstBatch))
		s := NewMongoStore(mt.DB)

		docs, err := s.GetDocuments(context.Background(), CategoryProduct, NewFilter())
		require.NoError(mt, err)
		assert.NotNil(mt, docs)
		assert.Empty(mt, docs)
	})

	mt.Run("command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))
		s := NewMongoStore(mt.DB)

		_, err := s.GetDocuments(context.Background(), CategoryProduct, NewFilter())
		var serr *StorageError
		require.ErrorAs(mt, err, &serr)
		assert.Equal(mt, "find", serr.Op)
		assert.Contains(mt, err.Error(), "not authorized")
	})
}

func TestMongoStoreCollectionNames(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lists names", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.$cmd.listCollections", mtest.FirstBatch,
			bson.D{{Key: "name", Value: "product"}, {Key: "type", Value: "collection"}},
			bson.D{{Key: "name", Value: "order"}, {Key: "type", Value: "collection"}},
		))
		s := NewMongoStore(mt.DB)

		names, err := s.CollectionNames(context.Background())
		require.NoError(mt, err)
		assert.ElementsMatch(mt, []string{"product", "order"}, names)
	})
}
