// Package bucket partitions ranked users into labeled display-score bands
// for secondary presentation below the top-N window.
package bucket

import (
	"github.com/talentco/skillsearch/internal/domain/types"
)

// Default band lower bounds on display score.
const (
	DefaultExcellentMin = 80.0
	DefaultStrongMin    = 60.0
	DefaultGoodMin      = 40.0

	maxDisplayScore = 100.0
)

// Band is one configured display-score range. Min is inclusive; Max is
// exclusive except for the top band, which includes 100.
type Band struct {
	Name string
	Min  float64
	Max  float64
}

// Bands builds the standard four bands from their lower bounds, highest
// first.
func Bands(excellentMin, strongMin, goodMin float64) []Band {
	return []Band{
		{Name: "Excellent Match", Min: excellentMin, Max: maxDisplayScore},
		{Name: "Strong Match", Min: strongMin, Max: excellentMin},
		{Name: "Good Match", Min: goodMin, Max: strongMin},
		{Name: "Other Matches", Min: 0, Max: goodMin},
	}
}

// Option applies a configuration option to the Bucketizer.
type Option func(*Bucketizer)

// WithBands replaces the band configuration. Bands must be ordered highest
// first and non-overlapping; the zero-length case is ignored.
func WithBands(bands []Band) Option {
	return func(b *Bucketizer) {
		if len(bands) > 0 {
			b.bands = bands
		}
	}
}

// Bucketizer assigns ranked users to score bands.
type Bucketizer struct {
	bands []Band
}

// New creates a bucketizer with configuration options.
func New(opts ...Option) *Bucketizer {
	b := &Bucketizer{
		bands: Bands(DefaultExcellentMin, DefaultStrongMin, DefaultGoodMin),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Assign places each user into the first band whose lower bound their
// display score reaches. Every configured band appears in the output, empty
// ones with Count 0, so a caller can render "no users in this band" rather
// than omitting it.
func (b *Bucketizer) Assign(users []types.RankedUser) []types.Bucket {
	buckets := make([]types.Bucket, len(b.bands))
	for i, band := range b.bands {
		buckets[i] = types.Bucket{
			Name:     band.Name,
			MinScore: band.Min,
			MaxScore: band.Max,
			Users:    []types.RankedUser{},
		}
	}

	for _, u := range users {
		for i, band := range b.bands {
			if u.Score.DisplayScore >= band.Min {
				buckets[i].Users = append(buckets[i].Users, u)
				break
			}
		}
	}

	for i := range buckets {
		buckets[i].Count = len(buckets[i].Users)
	}
	return buckets
}
