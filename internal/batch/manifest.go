package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one batch run.
type Manifest struct {
	RunID     string          `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	Plain     bool            `json:"plain"`
	Aperture  int             `json:"aperture"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Scenes    []ManifestEntry `json:"scenes"`
}

// ManifestEntry represents one scene in the output manifest.
type ManifestEntry struct {
	Name    string            `json:"name"`
	Source  string            `json:"source,omitempty"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Stats   *Stats            `json:"stats,omitempty"`
	Images  map[string]string `json:"images,omitempty"`
}

// NewManifest builds the manifest of a run under a fresh random id.
func NewManifest(cfg Config, results []Result) Manifest {
	m := Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Plain:     cfg.Plain,
		Aperture:  cfg.Gradient.Aperture,
		Scenes:    make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		e := ManifestEntry{
			Name:    r.Name,
			Source:  r.Source,
			Success: r.Success,
			Error:   r.Error,
			Images:  r.Images,
		}
		if r.Success {
			st := r.Stats
			e.Stats = &st
			m.Succeeded++
		} else {
			m.Failed++
		}
		m.Scenes[i] = e
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}
