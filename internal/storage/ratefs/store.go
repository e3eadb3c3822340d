// Package ratefs implements file-based persistence for the exchange-rate
// cache, so repeated runs over the same statements do not refetch rate
// history. Snapshots expire after a TTL and are discarded on a structure
// version mismatch.
package ratefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/portfel-dev/portfel/internal/common"
	"github.com/portfel-dev/portfel/internal/interfaces"
)

// SnapshotVersion identifies the snapshot structure. Bump when the layout
// of the stored cache changes; older snapshots are then ignored.
const SnapshotVersion = "1.0"

const snapshotFile = "rates.json"

// envelope wraps a snapshot with the metadata needed for staleness and
// version checks.
type envelope struct {
	LastUpdated time.Time               `json:"last_updated"`
	Version     string                  `json:"version"`
	Snapshot    interfaces.RateSnapshot `json:"snapshot"`
}

// Store persists rate cache snapshots as JSON files under a base path.
type Store struct {
	basePath string
	ttl      time.Duration
	logger   *common.Logger
	now      func() time.Time
}

// NewStore creates a snapshot store rooted at path.
func NewStore(logger *common.Logger, path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create rate store path %s: %w", path, err)
	}

	logger.Info().Str("path", path).Msg("rate snapshot store opened")
	return &Store{
		basePath: path,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Load returns the stored snapshot, or nil when none exists, the stored
// one is older than the TTL, or it was written by an incompatible version.
func (s *Store) Load() (*interfaces.RateSnapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rate snapshot: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable rate snapshot")
		return nil, nil
	}

	if env.Version != SnapshotVersion {
		s.logger.Info().Str("found", env.Version).Str("want", SnapshotVersion).Msg("discarding rate snapshot from other version")
		return nil, nil
	}
	if s.now().Sub(env.LastUpdated) > s.ttl {
		s.logger.Info().Time("last_updated", env.LastUpdated).Msg("discarding stale rate snapshot")
		return nil, nil
	}

	return &env.Snapshot, nil
}

// Save stores the snapshot atomically, replacing any previous one.
func (s *Store) Save(snap *interfaces.RateSnapshot) error {
	if snap == nil {
		return nil
	}

	env := envelope{
		LastUpdated: s.now(),
		Version:     SnapshotVersion,
		Snapshot:    *snap,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rate snapshot: %w", err)
	}

	target := filepath.Join(s.basePath, snapshotFile)
	tmpFile, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug().Int("bytes", len(data)).Msg("rate snapshot saved")
	return nil
}

// Ensure Store implements RateStorage
var _ interfaces.RateStorage = (*Store)(nil)
