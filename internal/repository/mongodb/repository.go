package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coilstock/internal/domain/models"
)

const (
	coilsCollection     = "coils"
	countersCollection  = "counters"
	snapshotsCollection = "daily_snapshots"
)

// MongoDBRepository implements the coil and snapshot repositories on top of
// MongoDB. Coil ids are sequential integers drawn from a counters document
// so they behave like the serial column clients already rely on.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) coils() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(coilsCollection)
}

// nextID atomically increments and returns the coil id sequence.
func (r *MongoDBRepository) nextID(ctx context.Context) (int64, error) {
	counters := r.client.Database(r.dbName).Collection(countersCollection)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": coilsCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, storeErr("allocate coil id", err)
	}
	return counter.Seq, nil
}

// Create persists a new coil and returns its assigned id.
func (r *MongoDBRepository) Create(ctx context.Context, coil models.Coil) (int64, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return 0, err
	}

	coil.ID = id
	if _, err := r.coils().InsertOne(ctx, coil); err != nil {
		return 0, storeErr("insert coil", err)
	}
	return id, nil
}

// GetByID fetches a single coil by id.
func (r *MongoDBRepository) GetByID(ctx context.Context, id int64) (models.Coil, error) {
	var coil models.Coil
	err := r.coils().FindOne(ctx, bson.M{"_id": id}).Decode(&coil)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Coil{}, models.ErrNotFound
	}
	if err != nil {
		return models.Coil{}, storeErr("find coil", err)
	}
	return coil, nil
}

// FilterByRanges folds the given inclusive ranges into one conjunction and
// returns every matching coil ordered by id.
func (r *MongoDBRepository) FilterByRanges(ctx context.Context, ranges []models.FieldRange) ([]models.Coil, error) {
	filter := bson.M{}
	for _, rng := range ranges {
		if rng.IsDate() {
			filter[string(rng.Field)] = bson.M{"$gte": rng.MinDate.Time(), "$lte": rng.MaxDate.Time()}
			continue
		}
		field := string(rng.Field)
		if rng.Field == models.FieldID {
			field = "_id"
		}
		filter[field] = bson.M{"$gte": rng.MinInt, "$lte": rng.MaxInt}
	}

	return r.findCoils(ctx, filter)
}

// FindEligible selects the coils in statistics scope for [start, end].
// The filter spells out the null branch explicitly: BSON orders null below
// datetimes, so a bare $lt on delete_date would otherwise sweep live coils
// into the wrong clause. The two branches mirror models.Coil.EligibleWithin.
func (r *MongoDBRepository) FindEligible(ctx context.Context, start, end models.Date) ([]models.Coil, error) {
	filter := bson.M{"$or": bson.A{
		// Deleted coils: NOT(delete_date < start AND add_date < end).
		bson.M{
			"delete_date": bson.M{"$ne": nil},
			"$or": bson.A{
				bson.M{"delete_date": bson.M{"$gte": start.Time()}},
				bson.M{"add_date": bson.M{"$gte": end.Time()}},
			},
		},
		// Live coils: add_date >= start.
		bson.M{
			"delete_date": nil,
			"add_date":    bson.M{"$gte": start.Time()},
		},
	}}

	return r.findCoils(ctx, filter)
}

// SoftDelete stamps delete_date on a live coil. The conditional update makes
// concurrent deletes race-safe: only one writer matches the null filter, and
// the loser observes the already-deleted record.
func (r *MongoDBRepository) SoftDelete(ctx context.Context, id int64, date models.Date) (models.Coil, error) {
	var coil models.Coil
	err := r.coils().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "delete_date": nil},
		bson.M{"$set": bson.M{"delete_date": date.Time()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&coil)
	if err == nil {
		return coil, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Coil{}, storeErr("soft delete coil", err)
	}

	// Either the coil does not exist or it is already deleted; a second
	// delete is a no-op returning the existing record.
	return r.GetByID(ctx, id)
}

// SaveDailySnapshot appends a scheduled statistics capture.
func (r *MongoDBRepository) SaveDailySnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	collection := r.client.Database(r.dbName).Collection(snapshotsCollection)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return storeErr("insert daily snapshot", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findCoils(ctx context.Context, filter bson.M) ([]models.Coil, error) {
	cursor, err := r.coils().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storeErr("find coils", err)
	}
	defer cursor.Close(ctx)

	coils := make([]models.Coil, 0)
	if err := cursor.All(ctx, &coils); err != nil {
		return nil, storeErr("decode coils", err)
	}
	return coils, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", models.ErrStore, op, err)
}
