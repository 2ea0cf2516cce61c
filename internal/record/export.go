package record

import (
	"encoding/json"
	"io"
)

type exportData struct {
	Scene    string                 `json:"scene"`
	Dt       float64                `json:"dt"`
	Duration float64                `json:"duration"`
	Steps    int                    `json:"steps"`
	Times    []float64              `json:"times"`
	Entities map[string][][]float64 `json:"entities"`
}

// ExportJSON writes a run as a single self-describing JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *Result) error {
	data := exportData{
		Scene:    meta.Scene,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    len(result.Times),
		Times:    result.Times,
		Entities: make(map[string][][]float64, len(result.Positions)),
	}

	for name, series := range result.Positions {
		rows := make([][]float64, len(series))
		for i, p := range series {
			rows[i] = []float64{p[0], p[1], p[2]}
		}
		data.Entities[name] = rows
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
