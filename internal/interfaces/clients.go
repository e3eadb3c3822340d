// Package interfaces defines service contracts for portfel
package interfaces

import (
	"context"

	"github.com/portfel-dev/portfel/internal/models"
)

// RatesClient provides access to a central-bank daily rate table API
type RatesClient interface {
	// GetRateTables retrieves all rate tables published between startDate
	// and endDate (inclusive, YYYY-MM-DD)
	GetRateTables(ctx context.Context, startDate, endDate string) ([]models.RateTable, error)
}
