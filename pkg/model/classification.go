package model

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type ClassificationKind string

const (
	ClassificationGrid   ClassificationKind = "grid"
	ClassificationResult ClassificationKind = "result"
)

// Classification is either a starting grid or a final result for a session.
// Build it with NewGridClassification or NewResultClassification.
type Classification struct {
	kind    ClassificationKind
	grid    []GridEntry
	results []SessionResult
}

func NewGridClassification(grid []GridEntry) Classification {
	if grid == nil {
		grid = []GridEntry{}
	}
	return Classification{kind: ClassificationGrid, grid: grid}
}

func NewResultClassification(results []SessionResult) Classification {
	if results == nil {
		results = []SessionResult{}
	}
	return Classification{kind: ClassificationResult, results: results}
}

func (c Classification) Kind() ClassificationKind {
	return c.kind
}

// Match calls exactly one of the handlers depending on the variant.
func Match[T any](c Classification, onGrid func([]GridEntry) T, onResult func([]SessionResult) T) T {
	switch c.kind {
	case ClassificationGrid:
		return onGrid(c.grid)
	case ClassificationResult:
		return onResult(c.results)
	}
	panic("model: zero Classification")
}

type classificationJSON struct {
	Type    ClassificationKind `json:"type"`
	Grid    []GridEntry        `json:"grid,omitempty"`
	Results []SessionResult    `json:"results,omitempty"`
}

func (c Classification) MarshalJSON() ([]byte, error) {
	if c.kind == "" {
		return nil, errors.New("marshalling zero Classification")
	}
	return json.Marshal(classificationJSON{Type: c.kind, Grid: c.grid, Results: c.results})
}

func (c *Classification) UnmarshalJSON(data []byte) error {
	var raw classificationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decoding classification")
	}
	switch raw.Type {
	case ClassificationGrid:
		*c = NewGridClassification(raw.Grid)
	case ClassificationResult:
		*c = NewResultClassification(raw.Results)
	default:
		return errors.Errorf("unknown classification type %q", raw.Type)
	}
	return nil
}
