package personalize

import (
	"log/slog"
	"sort"

	"github.com/eduforge/eduforge/internal/content"
)

// Index is an immutable snapshot of (content ID, feature vector) pairs built
// by Train. Queries against a snapshot never observe a partial rebuild:
// callers that retrain simply swap to the new snapshot, so no locking is
// needed on the index itself.
type Index struct {
	ids  []string
	vecs []Vector
}

// Train builds an index snapshot from a content list. Records whose features
// cannot be extracted are logged and skipped; they never abort the batch.
// An empty or fully-skipped input produces an empty snapshot whose queries
// return no results.
func Train(records []content.Record) *Index {
	ix := &Index{}
	if len(records) == 0 {
		slog.Warn("no content available for training personalization index")
		return ix
	}

	for _, rec := range records {
		v, err := ExtractFeatures(rec)
		if err != nil {
			slog.Warn("skipping content record", "content_id", rec.ID, "error", err)
			continue
		}
		ix.ids = append(ix.ids, rec.ID)
		ix.vecs = append(ix.vecs, v)
	}

	if len(ix.ids) == 0 {
		slog.Warn("no valid features extracted for personalization index")
	}
	return ix
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.ids)
}

// Query returns the IDs of the k records nearest to v by Euclidean distance,
// nearest first. Distance ties keep insertion order. k is clamped to the
// index size; an untrained index returns nil rather than an error.
func (ix *Index) Query(v Vector, k int) []string {
	if ix.Len() == 0 || k <= 0 {
		return nil
	}
	if k > ix.Len() {
		k = ix.Len()
	}

	dists := make([]float64, ix.Len())
	order := make([]int, ix.Len())
	for i := range order {
		dists[i] = distanceSq(ix.vecs[i], v)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return dists[order[a]] < dists[order[b]]
	})

	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = ix.ids[order[i]]
	}
	return out
}
