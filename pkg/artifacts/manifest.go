package artifacts

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InputChecksum records one input file and its digest, so a published
// result set can be traced to exact input data.
type InputChecksum struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// Manifest is the run's reproducibility record.
type Manifest struct {
	RunID      string          `json:"runId"`
	StartedAt  string          `json:"startedAt"`
	FinishedAt string          `json:"finishedAt"`
	Seed       int64           `json:"seed"`
	SeedFixed  bool            `json:"seedFixed"` // false: seed was time-derived, resampling not bit-reproducible
	Config     json.RawMessage `json:"config"`
	Inputs     []InputChecksum `json:"inputs"`
	Outputs    []Output        `json:"outputs"`
}

// NewManifest starts a manifest with a fresh run ID.
func NewManifest(start time.Time, seed int64, seedFixed bool) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: Timestamp(start),
		Seed:      seed,
		SeedFixed: seedFixed,
	}
}

// AddInput hashes an input file into the manifest.
func (m *Manifest) AddInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("checksum %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("checksum %s: %w", path, err)
	}
	m.Inputs = append(m.Inputs, InputChecksum{
		Path:   filepath.Base(path),
		SHA256: hex.EncodeToString(h.Sum(nil)),
	})
	return nil
}

// SetConfig embeds the effective run configuration.
func (m *Manifest) SetConfig(cfg any) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	m.Config = raw
	return nil
}

// Write finalizes the manifest against the store's registered outputs and
// writes manifest.json at the store root.
func (m *Manifest) Write(logger *zap.Logger, s *Store, finished time.Time) error {
	m.FinishedAt = Timestamp(finished)
	m.Outputs = s.Outputs()

	path := filepath.Join(s.Root(), "manifest.json")
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	logger.Info("wrote manifest",
		zap.String("runId", m.RunID),
		zap.Int("inputs", len(m.Inputs)),
		zap.Int("outputs", len(m.Outputs)))
	return nil
}
