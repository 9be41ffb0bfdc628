package repositories

import (
	"context"
	"time"

	"food-marketplace/internal/models"
	"food-marketplace/pkg/geo"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VendorLocation Repository
type vendorLocationRepository struct {
	collection *mongo.Collection
}

func NewVendorLocationRepository(db *mongo.Database) VendorLocationRepository {
	return &vendorLocationRepository{
		collection: db.Collection("vendor_locations"),
	}
}

func (r *vendorLocationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (r *vendorLocationRepository) Upsert(ctx context.Context, vendorID uuid.UUID, point geo.Point) error {
	filter := bson.M{"vendor_id": vendorID.String()}
	update := bson.M{"$set": models.VendorLocation{
		VendorID:  vendorID.String(),
		Location:  models.NewGeoJSONPoint(point.Longitude, point.Latitude),
		UpdatedAt: time.Now(),
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Within runs $geoNear restricted to the candidate vendors. Distances come
// back in kilometres, nearest first.
func (r *vendorLocationRepository) Within(ctx context.Context, center geo.Point, radiusKm float64, vendorIDs []uuid.UUID) ([]geo.Hit, error) {
	if len(vendorIDs) == 0 {
		return nil, nil
	}

	ids := make(bson.A, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		ids = append(ids, id.String())
	}

	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: models.NewGeoJSONPoint(center.Longitude, center.Latitude)},
			{Key: "key", Value: "location"},
			{Key: "distanceField", Value: "distance_km"},
			{Key: "distanceMultiplier", Value: 0.001},
			{Key: "maxDistance", Value: radiusKm * 1000},
			{Key: "spherical", Value: true},
			{Key: "query", Value: bson.M{"vendor_id": bson.M{"$in": ids}}},
		}}},
		{{Key: "$project", Value: bson.M{"vendor_id": 1, "distance_km": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		VendorID   string  `bson:"vendor_id"`
		DistanceKm float64 `bson:"distance_km"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	hits := make([]geo.Hit, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.VendorID)
		if err != nil {
			continue
		}
		hits = append(hits, geo.Hit{VendorID: id, DistanceKm: row.DistanceKm})
	}
	return hits, nil
}
