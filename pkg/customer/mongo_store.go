package customer

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collectionName = "customers"

// MongoStore persists customer records in a single MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a store backed by the "customers" collection of db.
// Panics on nil database to fail fast during initialization.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("customer: mongo database is required")
	}
	return &MongoStore{coll: db.Collection(collectionName)}
}

// EnsureIndexes creates the two lookup indexes the store relies on.
// The userId index is unique so a double Create cannot produce two
// records for one identity. Call once at process start.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("by_userId").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "polarCustomerId", Value: 1}},
			Options: options.Index().SetName("by_polarCustomerId").SetSparse(true),
		},
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *MongoStore) GetByUserID(ctx context.Context, userID string) (*Customer, error) {
	return s.findOne(ctx, bson.D{{Key: "userId", Value: userID}})
}

func (s *MongoStore) GetByPolarCustomerID(ctx context.Context, polarCustomerID string) (*Customer, error) {
	return s.findOne(ctx, bson.D{{Key: "polarCustomerId", Value: polarCustomerID}})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*Customer, error) {
	var c Customer
	if err := s.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &c, nil
}

func (s *MongoStore) Insert(ctx context.Context, c *Customer) error {
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCustomerAlreadyExists
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *MongoStore) UpdateByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	return s.patch(ctx, bson.D{{Key: "userId", Value: userID}}, upd)
}

func (s *MongoStore) UpdateByPolarCustomerID(ctx context.Context, polarCustomerID string, upd Update) (*Customer, error) {
	return s.patch(ctx, bson.D{{Key: "polarCustomerId", Value: polarCustomerID}}, upd)
}

func (s *MongoStore) patch(ctx context.Context, filter bson.D, upd Update) (*Customer, error) {
	update := bson.D{{Key: "$set", Value: setFields(upd, storeNow())}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c Customer
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &c, nil
}

// UpsertByUserID executes the patch-or-insert as one FindOneAndUpdate so
// the existence check and the write cannot interleave with a concurrent
// upsert for the same user id. When two new-record upserts race, the
// unique userId index rejects the second insert with a duplicate key
// error; the retry then patches the record the winner created.
func (s *MongoStore) UpsertByUserID(ctx context.Context, userID string, upd Update) (*Customer, error) {
	now := storeNow()

	setOnInsert := bson.D{{Key: "createdAt", Value: now}}
	if upd.Membership == nil {
		setOnInsert = append(setOnInsert, bson.E{Key: "membership", Value: MembershipFree})
	}
	update := bson.D{
		{Key: "$set", Value: setFields(upd, now)},
		{Key: "$setOnInsert", Value: setOnInsert},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var lastErr error
	for range 2 {
		var c Customer
		err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "userId", Value: userID}}, update, opts).Decode(&c)
		if err == nil {
			return &c, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			lastErr = err
			continue
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return nil, errors.Join(ErrStoreUnavailable, lastErr)
}

// setFields builds the $set document from the supplied fields only,
// always stamping updatedAt.
func setFields(upd Update, now time.Time) bson.D {
	set := bson.D{{Key: "updatedAt", Value: now}}
	if upd.Membership != nil {
		set = append(set, bson.E{Key: "membership", Value: *upd.Membership})
	}
	if upd.PolarCustomerID != nil {
		set = append(set, bson.E{Key: "polarCustomerId", Value: *upd.PolarCustomerID})
	}
	if upd.PolarSubscriptionID != nil {
		set = append(set, bson.E{Key: "polarSubscriptionId", Value: *upd.PolarSubscriptionID})
	}
	return set
}

// storeNow returns the current UTC time at millisecond granularity,
// matching MongoDB's datetime precision so round-tripped timestamps
// compare equal.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
