package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeoJSONPoint is stored as {type: "Point", coordinates: [lng, lat]}.
type GeoJSONPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewGeoJSONPoint(longitude, latitude float64) GeoJSONPoint {
	return GeoJSONPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
}

// VendorLocation model - MongoDB. The vendor profile location, indexed
// 2dsphere for $geoNear.
type VendorLocation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID  string             `bson:"vendor_id" json:"vendor_id"`
	Location  GeoJSONPoint       `bson:"location" json:"location"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
