package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/derivlab/internal/eval"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrAmbiguous = errors.New("storage: run id prefix is ambiguous")
)

type Store struct {
	baseDir string
	logger  *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "create data dir %s", s.baseDir)
}

type RunMetadata struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Input      string    `json:"input"`
	Expression string    `json:"expression"`
	Derivative string    `json:"derivative"`
	Order      int       `json:"order"`
	Policy     string    `json:"policy"`
	Simplified bool      `json:"simplified"`
	Skipped    []string  `json:"skipped,omitempty"`
	XMin       float64   `json:"xmin"`
	XMax       float64   `json:"xmax"`
	Steps      int       `json:"steps"`
	Warnings   int       `json:"warnings"`
	ElapsedMS  float64   `json:"elapsed_ms"`
	CacheHits  uint64    `json:"cache_hits"`
	CacheMiss  uint64    `json:"cache_misses"`
}

// Samples holds the saved grid with f and its derivative side by side.
type Samples struct {
	X  []float64
	F  []float64
	DF []float64
}

// SamplesFromSeries zips two series sampled on the same grid.
func SamplesFromSeries(f, df eval.Series) Samples {
	n := min(len(f.Points), len(df.Points))
	out := Samples{X: make([]float64, n), F: make([]float64, n), DF: make([]float64, n)}
	for i := 0; i < n; i++ {
		out.X[i] = f.Points[i].X
		out.F[i] = f.Points[i].Y
		out.DF[i] = df.Points[i].Y
	}
	return out
}

// Series turns stored samples back into sampled series. Domain warnings are
// not stored, so the points only carry NaN values.
func (s Samples) Series() (f, df eval.Series) {
	f.Points = make([]eval.Point, len(s.X))
	df.Points = make([]eval.Point, len(s.X))
	for i, x := range s.X {
		f.Points[i] = eval.Point{X: x, Y: s.F[i]}
		df.Points[i] = eval.Point{X: x, Y: s.DF[i]}
	}
	return f, df
}

// Save writes a new run directory and returns its id. ID and Timestamp are
// filled in when empty.
func (s *Store) Save(meta RunMetadata, samples Samples) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrapf(err, "create run dir %s", runDir)
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), samples); err != nil {
		return "", err
	}

	s.logger.Info("saved run",
		zap.String("id", meta.ID),
		zap.String("expression", meta.Expression),
		zap.Int("samples", len(samples.X)))
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(v), "encode %s", path)
}

func writeSamples(path string, samples Samples) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "f", "df"}); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	for i := range samples.X {
		row := []string{formatFloat(samples.X[i]), formatFloat(samples.F[i]), formatFloat(samples.DF[i])}
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	w.Flush()
	return errors.Wrapf(w.Error(), "flush %s", path)
}

// formatFloat round-trips exactly; NaN is written as "NaN".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrapf(err, "read data dir %s", s.baseDir)
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debug("skipping unreadable run", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

// Resolve expands a unique id prefix to a full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", errors.Wrap(ErrNotFound, "empty run id")
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "read data dir %s", s.baseDir)
	}
	var match string
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if match != "" {
			return "", errors.Wrapf(ErrAmbiguous, "%q", prefix)
		}
		match = entry.Name()
	}
	if match == "" {
		return "", errors.Wrapf(ErrNotFound, "%q", prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%q", runID)
		}
		return nil, errors.Wrapf(err, "read %s", metaPath)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decode %s", metaPath)
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) (Samples, error) {
	csvPath := filepath.Join(s.baseDir, runID, samplesFile)
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Samples{}, errors.Wrapf(ErrNotFound, "%q", runID)
		}
		return Samples{}, errors.Wrapf(err, "open %s", csvPath)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		return Samples{}, errors.Wrapf(err, "read %s", csvPath)
	}

	var out Samples
	for i, record := range records {
		if i == 0 {
			continue
		}
		var row [3]float64
		for j := range row {
			if row[j], err = strconv.ParseFloat(record[j], 64); err != nil {
				return Samples{}, errors.Wrapf(err, "%s line %d", csvPath, i+1)
			}
		}
		out.X = append(out.X, row[0])
		out.F = append(out.F, row[1])
		out.DF = append(out.DF, row[2])
	}
	return out, nil
}
