package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a single customer review embedded in a product document.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Name      string             `bson:"name" json:"name"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ColorVariant groups the images shown for one colour of a product.
type ColorVariant struct {
	Name   string   `bson:"colorName" json:"colorName"`
	Images []string `bson:"images" json:"images"`
}

type Product struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	User           *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Image          string              `bson:"image" json:"image"`
	Brand          string              `bson:"brand" json:"brand"`
	Category       string              `bson:"category" json:"category"`
	Description    string              `bson:"description" json:"description"`
	Price          float64             `bson:"price" json:"price"`
	CountInStock   int                 `bson:"countInStock" json:"countInStock"`
	Rating         float64             `bson:"rating" json:"rating"`
	NumReviews     int                 `bson:"numReviews" json:"numReviews"`
	Colors         []ColorVariant      `bson:"colors" json:"colors"`
	AvailableSizes StringList          `bson:"availableSizes" json:"availableSizes"`
	Reviews        []Review            `bson:"reviews" json:"reviews"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ImageFor returns the first image of the named colour, falling back to the
// product's main image.
func (p Product) ImageFor(color string) string {
	for _, variant := range p.Colors {
		if variant.Name == color && len(variant.Images) > 0 {
			return variant.Images[0]
		}
	}
	return p.Image
}
