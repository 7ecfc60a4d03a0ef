package orders

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LineRef identifies the product and the variant a line item was added with.
type LineRef struct {
	ProductID primitive.ObjectID
	Color     string
	Size      string
}

// LineItem is one cart entry submitted at checkout.
type LineItem struct {
	Ref LineRef
	Qty int
}

// ParseLegacyRef decomposes the cart key older clients send in place of a
// product id: "<productId>-<color>-<size>". Color may itself contain dashes,
// the size is always the last segment.
func ParseLegacyRef(key string) (LineRef, error) {
	idPart, rest, _ := strings.Cut(strings.TrimSpace(key), "-")
	id, err := primitive.ObjectIDFromHex(idPart)
	if err != nil {
		return LineRef{}, validationError("invalid product reference %q", key)
	}

	ref := LineRef{ProductID: id}
	if rest == "" {
		return ref, nil
	}
	if i := strings.LastIndex(rest, "-"); i >= 0 {
		ref.Color, ref.Size = rest[:i], rest[i+1:]
	} else {
		ref.Color = rest
	}
	return ref, nil
}
