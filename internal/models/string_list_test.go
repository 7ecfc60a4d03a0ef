package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStringListDecodesCommaSeparatedString(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"availableSizes": "S, M ,,L"})
	require.NoError(t, err)

	var product Product
	require.NoError(t, bson.Unmarshal(raw, &product))
	assert.Equal(t, StringList{"S", "M", "L"}, product.AvailableSizes)
}

func TestStringListDecodesArray(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"availableSizes": bson.A{"42", "43"}})
	require.NoError(t, err)

	var product Product
	require.NoError(t, bson.Unmarshal(raw, &product))
	assert.Equal(t, StringList{"42", "43"}, product.AvailableSizes)
}

func TestStringListMarshalsNilAsEmptyArray(t *testing.T) {
	raw, err := bson.Marshal(Product{Name: "Ball"})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, bson.A{}, doc["availableSizes"])
}

func TestImageForPrefersColourVariant(t *testing.T) {
	p := Product{
		Image: "/images/main.jpg",
		Colors: []ColorVariant{
			{Name: "Red", Images: []string{"/images/red-1.jpg", "/images/red-2.jpg"}},
			{Name: "Blue"},
		},
	}

	assert.Equal(t, "/images/red-1.jpg", p.ImageFor("Red"))
	assert.Equal(t, "/images/main.jpg", p.ImageFor("Blue"))
	assert.Equal(t, "/images/main.jpg", p.ImageFor(""))
}
