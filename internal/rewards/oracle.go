package rewards

import (
	"context"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Oracle is the external source of per-attraction, per-user point values.
type Oracle interface {
	AttractionRewardPoints(ctx context.Context, attractionID, userID uuid.UUID) (int, error)
}

// Central is an in-process Oracle that grants a random point value, the
// way the real service would price an attraction per user.
type Central struct{}

// NewCentral constructs a Central.
func NewCentral() *Central {
	return &Central{}
}

// AttractionRewardPoints returns a point value between 1 and 1000.
func (c *Central) AttractionRewardPoints(_ context.Context, _, _ uuid.UUID) (int, error) {
	return 1 + rand.IntN(1000), nil
}
