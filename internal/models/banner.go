package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner is a homepage carousel slide.
type Banner struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Image     string             `bson:"image" json:"image"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
