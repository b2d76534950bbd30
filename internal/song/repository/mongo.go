package repository

import (
	"context"

	"github.com/songsvc/songs-service/internal/song"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store over a MongoDB collection. Songs are looked up by
// their application-level "id" field, never by "_id".
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

// EnsureIndexes creates the unique index on "id" so concurrent creates with the
// same id cannot both succeed.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: song.IDField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	}
	_, err := m.col.Indexes().CreateOne(ctx, idx)
	return storeErr("ensure indexes", err)
}

func (m *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storeErr("count", err)
	}
	return n, nil
}

func (m *MongoStore) FindAll(ctx context.Context) ([]song.Song, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, storeErr("find all", err)
	}
	defer cur.Close(ctx)
	out := []song.Song{}
	for cur.Next(ctx) {
		var s song.Song
		if err := cur.Decode(&s); err != nil {
			return nil, storeErr("find all", err)
		}
		out = append(out, s)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("find all", err)
	}
	return out, nil
}

func (m *MongoStore) FindByID(ctx context.Context, id song.ID) (song.Song, error) {
	var s song.Song
	if err := m.col.FindOne(ctx, id.Filter()).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, storeErr("find by id", err)
	}
	return s, nil
}

func (m *MongoStore) Insert(ctx context.Context, s song.Song) (song.Song, error) {
	res, err := m.col.InsertOne(ctx, s)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateID
		}
		return nil, storeErr("insert", err)
	}
	out := copySong(s)
	out["_id"] = res.InsertedID
	return out, nil
}

func (m *MongoStore) InsertIfAbsent(ctx context.Context, s song.Song) (bool, error) {
	id, err := song.IDOf(s)
	if err != nil {
		return false, err
	}
	update := bson.M{"$setOnInsert": mergeFields(s)}
	res, err := m.col.UpdateOne(ctx, id.Filter(), update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, storeErr("insert if absent", err)
	}
	return res.UpsertedCount > 0, nil
}

func (m *MongoStore) UpdateByID(ctx context.Context, id song.ID, partial song.Song) (bool, error) {
	next, renamed, err := renamedID(id, partial)
	if err != nil {
		return false, err
	}
	if renamed {
		// the unique index only catches a clash of the same BSON type
		n, err := m.col.CountDocuments(ctx, next.Filter(), options.Count().SetLimit(1))
		if err != nil {
			return false, storeErr("update by id", err)
		}
		if n > 0 {
			return false, ErrDuplicateID
		}
	}
	set := mergeFields(partial)
	if len(set) == 0 {
		// an empty $set is rejected by the server
		n, err := m.col.CountDocuments(ctx, id.Filter(), options.Count().SetLimit(1))
		if err != nil {
			return false, storeErr("update by id", err)
		}
		return n > 0, nil
	}
	res, err := m.col.UpdateOne(ctx, id.Filter(), bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, ErrDuplicateID
		}
		return false, storeErr("update by id", err)
	}
	return res.MatchedCount > 0, nil
}

func (m *MongoStore) DeleteByID(ctx context.Context, id song.ID) (bool, error) {
	res, err := m.col.DeleteOne(ctx, id.Filter())
	if err != nil {
		return false, storeErr("delete by id", err)
	}
	return res.DeletedCount > 0, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return storeErr("ping", m.col.Database().Client().Ping(ctx, nil))
}
