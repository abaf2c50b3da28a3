package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"
)

type ExportData struct {
	Run RunMetadata `json:"run"`
	X   []float64   `json:"x"`
	// NaN samples are exported as null.
	F  []*float64 `json:"f"`
	DF []*float64 `json:"df"`
}

func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		Run: *meta,
		X:   samples.X,
		F:   nullable(samples.F),
		DF:  nullable(samples.DF),
	}, nil
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(data), "export %s", runID)
}

func nullable(vs []float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = &vs[i]
	}
	return out
}
