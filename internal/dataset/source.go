// Package dataset merges the three assessment sources into one table of
// property-year records, derives growth and value density, and indexes the
// result by (roll year, community code, community name).
package dataset

import (
	"context"
	"errors"

	"assessments/internal/types"
)

// ErrMissingColumn is returned by loaders when a source lacks a required column.
// There is no way to join without it, so callers treat it as fatal.
var ErrMissingColumn = errors.New("missing required column")

// Source produces the three fixed-schema record sets.
type Source interface {
	Load(ctx context.Context) (types.Sources, error)
}
