package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"vidfetch/internal/domain/download"
)

const (
	videoSuffix = "_video.mp4"
	audioSuffix = "_audio.m4a"
	finalSuffix = ".mp4"
)

// Store manages the shared artifact directory: per-job intermediate files,
// completed outputs and the background reaper that reclaims disk space.
type Store struct {
	Dir    string
	logger *log.Logger
}

// NewStore creates a filesystem adapter rooted at dir.
func NewStore(dir string, logger *log.Logger) *Store {
	return &Store{Dir: dir, logger: logger}
}

// EnsureDir creates the store root if absent. Safe to call per job.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// ArtifactPaths derives the three per-job paths from a sanitized output name.
// Uniqueness across concurrent jobs relies on callers supplying distinct
// names; a collision is last-writer-wins.
func (s *Store) ArtifactPaths(outputName string) download.ArtifactSet {
	return download.ArtifactSet{
		VideoTmp: filepath.Join(s.Dir, outputName+videoSuffix),
		AudioTmp: filepath.Join(s.Dir, outputName+audioSuffix),
		Final:    filepath.Join(s.Dir, outputName+finalSuffix),
	}
}

// Remove deletes one artifact. A missing file is not an error.
func (s *Store) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func (s *Store) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Sweep deletes every regular file directly under the store root, regardless
// of age or in-flight status. A file being streamed to a client when the
// sweep fires is deleted too; the client sees a transport error on its next
// read, never a crash here.
func (s *Store) Sweep() (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.Dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Printf("sweep: failed to delete %s: %v", path, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// StartReaper runs periodic sweeps until ctx is cancelled. Started once at
// process startup; cancellation is the graceful-shutdown path.
func (s *Store) StartReaper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Sweep()
				if err != nil {
					s.logger.Printf("sweep failed: %v", err)
					continue
				}
				if removed > 0 {
					s.logger.Printf("sweep removed %d file(s) from %s", removed, s.Dir)
				}
			}
		}
	}()
}
