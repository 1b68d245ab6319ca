package publisher

import (
	"context"
	"time"

	"github.com/xiongmaoshiwo/mlchem-digest/internal/source"
)

// Digest is the final ordered record collection handed off for delivery.
// Records keep their merge-then-dedup order; any re-sorting is up to the
// individual publisher.
type Digest struct {
	Date         time.Time
	MLKeywords   []string
	ChemKeywords []string
	Records      []source.Record
}

// Publisher delivers a digest to some output destination.
type Publisher interface {
	Publish(ctx context.Context, digest *Digest) error
}
