package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Result collects per-entity pivot trajectories over a run. One Sample
// call per tick, then one Record call per tracked entity.
type Result struct {
	Times     []float64
	Positions map[string][]mgl64.Vec3
}

func NewResult() *Result {
	return &Result{Positions: make(map[string][]mgl64.Vec3)}
}

func (r *Result) Sample(t float64) {
	r.Times = append(r.Times, t)
}

func (r *Result) Record(name string, p mgl64.Vec3) {
	r.Positions[name] = append(r.Positions[name], p)
}

// Entities returns the tracked entity names in stable order.
func (r *Result) Entities() []string {
	names := make([]string, 0, len(r.Positions))
	for name := range r.Positions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Axis extracts one coordinate series for an entity: 0=x, 1=y, 2=z.
func (r *Result) Axis(name string, axis int) []float64 {
	series := r.Positions[name]
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p[axis]
	}
	return out
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Scene     string    `json:"scene"`
	Timestamp time.Time `json:"timestamp"`
	Dt        float64   `json:"dt"`
	Duration  float64   `json:"duration"`
	Steps     int       `json:"steps"`
	Entities  []string  `json:"entities"`
}

// Store persists runs under a base directory, one subdirectory per run
// with metadata.json and states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Save(sceneName string, dt, duration float64, result *Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", sceneName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     sceneName,
		Timestamp: time.Now(),
		Dt:        dt,
		Duration:  duration,
		Steps:     len(result.Times),
		Entities:  result.Entities(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	statesFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer statesFile.Close()

	return runID, WriteCSV(statesFile, result)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var metas []RunMetadata
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		metas = append(metas, *meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.Before(metas[j].Timestamp)
	})
	return metas, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadStates(runID string) (*Result, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("run %s: empty states file", runID)
	}

	header := rows[0]
	if len(header) < 1 || (len(header)-1)%3 != 0 {
		return nil, fmt.Errorf("run %s: malformed states header", runID)
	}
	names := make([]string, 0, (len(header)-1)/3)
	for col := 1; col < len(header); col += 3 {
		// columns read "<name>.x", "<name>.y", "<name>.z"
		names = append(names, header[col][:len(header[col])-2])
	}

	result := NewResult()
	for _, row := range rows[1:] {
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, err
		}
		result.Sample(t)
		for i, name := range names {
			var p mgl64.Vec3
			for axis := 0; axis < 3; axis++ {
				v, err := strconv.ParseFloat(row[1+i*3+axis], 64)
				if err != nil {
					return nil, err
				}
				p[axis] = v
			}
			result.Record(name, p)
		}
	}
	return result, nil
}

// WriteCSV writes "time" plus x/y/z columns per tracked entity.
func WriteCSV(w io.Writer, result *Result) error {
	return writeCSV(csv.NewWriter(w), result)
}

func writeCSV(cw *csv.Writer, result *Result) error {
	names := result.Entities()

	header := []string{"time"}
	for _, name := range names {
		header = append(header, name+".x", name+".y", name+".z")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, name := range names {
			series := result.Positions[name]
			if i >= len(series) {
				return fmt.Errorf("entity %s: missing sample %d", name, i)
			}
			for axis := 0; axis < 3; axis++ {
				row = append(row, strconv.FormatFloat(series[i][axis], 'g', -1, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
