// Package personalize implements the feature-based personalization engine:
// content feature extraction, user preference profiles with incremental
// updates, and nearest-neighbor content recommendation over a shared
// 6-dimensional feature space.
package personalize

import (
	"errors"
	"fmt"
	"math"

	"github.com/eduforge/eduforge/internal/content"
)

// Dim is the dimension of the shared feature space. Content records and user
// profiles are embedded into the same basis so Euclidean distance between
// them is meaningful.
const Dim = 6

// Vector is a point in the feature space. Slots:
//
//	0: difficulty / 10
//	1: type == explanation
//	2: type == example
//	3: type == resource
//	4: Flesch reading ease / 100 (content) or 1 - knowledge/10 (profile)
//	5: body length, saturating at maxBodyChars (content) or length preference (profile)
//
// Every component lies in [0, 1]. The three type slots are one-hot; all zero
// for unrecognized types.
type Vector [Dim]float64

// maxBodyChars is the hard saturation cutoff for the length feature.
const maxBodyChars = 10000

// ErrInvalidRecord marks a content record whose fields are structurally
// unusable for feature extraction. Callers exclude such records from the
// index; the error is never fatal to a batch.
var ErrInvalidRecord = errors.New("personalize: invalid content record")

// ExtractFeatures converts a content record into its feature vector.
//
// Difficulty is clamped to [0, 1] after normalization, matching the clamping
// applied to readability and length.
func ExtractFeatures(rec content.Record) (Vector, error) {
	var v Vector

	d := rec.EffectiveDifficulty()
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return Vector{}, fmt.Errorf("%w: non-finite difficulty for %q", ErrInvalidRecord, rec.ID)
	}
	v[0] = clamp01(d / 10)

	switch rec.Type {
	case content.TypeExplanation:
		v[1] = 1
	case content.TypeExample:
		v[2] = 1
	case content.TypeResource:
		v[3] = 1
	}

	flesch := rec.FleschReadingEase()
	if math.IsNaN(flesch) || math.IsInf(flesch, 0) {
		return Vector{}, fmt.Errorf("%w: non-finite readability for %q", ErrInvalidRecord, rec.ID)
	}
	v[4] = clamp01(flesch / 100)

	v[5] = math.Min(float64(len(rec.Body))/maxBodyChars, 1)

	return v, nil
}

// distanceSq returns the squared Euclidean distance between two vectors.
// Squared distance preserves ordering, which is all the index needs.
func distanceSq(a, b Vector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
