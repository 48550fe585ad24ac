package diagnosis

import (
	"context"

	"github.com/leafsense/plant-backend/internal/locale"
	"github.com/leafsense/plant-backend/internal/upload"
)

// Request carries one analysis call's inputs: the ordered image set and
// the language the user-facing text should come back in.
type Request struct {
	Images   upload.Set
	Language locale.Language
}

// Analyzer produces a validated diagnosis from plant photos. There is
// exactly one call per submission and no retries; any failure is
// reported to the user as a single generic notice.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}
