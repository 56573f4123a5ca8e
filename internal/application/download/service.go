package download

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	dldomain "vidfetch/internal/domain/download"
)

// Service drives download-and-assembly jobs: two external stream fetches, an
// external mux step, and the intermediate-file lifecycle around them. One job
// per invocation; concurrent jobs share nothing beyond the store directory.
type Service struct {
	resolver Resolver
	muxer    Muxer
	store    ArtifactStore
	auth     dldomain.AuthContext
	logger   *log.Logger
}

// NewService creates the orchestrator with injected ports.
func NewService(resolver Resolver, muxer Muxer, store ArtifactStore, auth dldomain.AuthContext, logger *log.Logger) *Service {
	return &Service{
		resolver: resolver,
		muxer:    muxer,
		store:    store,
		auth:     auth,
		logger:   logger,
	}
}

// ListFormats enumerates selectable formats for a source URL. Listing twice
// yields the same descriptor set up to ordering, assuming no upstream change.
func (s *Service) ListFormats(ctx context.Context, rawURL string) ([]dldomain.Format, error) {
	if err := dldomain.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	// The resolver needs the companion binary for metadata in some paths,
	// so a missing tool is reported before any network I/O.
	if err := s.muxer.Locate(); err != nil {
		return nil, err
	}
	return s.resolver.ListFormats(ctx, rawURL, s.auth)
}

// RunJob executes one job to completion and returns the final artifact path.
// Stages run strictly in order: locate tool, download video, download audio,
// mux, clean up. Intermediate files never survive the job, whatever the
// outcome, and a failed job never leaves a servable final output.
func (s *Service) RunJob(ctx context.Context, req dldomain.JobRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	outputName, err := dldomain.SanitizeOutputName(req.OutputName)
	if err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	s.logger.Printf("[job %s] started: url=%s format=%s output=%s", jobID, req.SourceURL, req.FormatID, outputName)

	if err := s.muxer.Locate(); err != nil {
		s.logger.Printf("[job %s] failed: %v", jobID, err)
		return "", err
	}
	if err := s.store.EnsureDir(); err != nil {
		return "", fmt.Errorf("artifact store unavailable: %w", err)
	}

	paths := s.store.ArtifactPaths(outputName)
	defer func() {
		s.removeQuiet(jobID, paths.VideoTmp)
		s.removeQuiet(jobID, paths.AudioTmp)
	}()

	if err := s.resolver.FetchStream(ctx, req.SourceURL, req.FormatID, paths.VideoTmp, s.auth); err != nil {
		s.logger.Printf("[job %s] video download failed: %v", jobID, err)
		return "", &dldomain.JobError{Stage: dldomain.StageDownloadingVideo, Err: err}
	}

	if err := s.resolver.FetchStream(ctx, req.SourceURL, "bestaudio", paths.AudioTmp, s.auth); err != nil {
		s.logger.Printf("[job %s] audio download failed: %v", jobID, err)
		return "", &dldomain.JobError{Stage: dldomain.StageDownloadingAudio, Err: err}
	}

	if err := s.muxer.Mux(ctx, paths.VideoTmp, paths.AudioTmp, paths.Final, req.Trim()); err != nil {
		// Whatever ffmpeg left behind on failure is untrusted.
		s.removeQuiet(jobID, paths.Final)
		s.logger.Printf("[job %s] mux failed: %v", jobID, err)
		return "", &dldomain.JobError{Stage: dldomain.StageMuxing, Err: err}
	}

	if !s.store.FileExists(paths.Final) {
		s.logger.Printf("[job %s] mux reported success but wrote no output", jobID)
		return "", &dldomain.JobError{Stage: dldomain.StageMuxing, Err: fmt.Errorf("no output produced")}
	}

	s.logger.Printf("[job %s] finished: %s", jobID, paths.Final)
	return paths.Final, nil
}

func (s *Service) removeQuiet(jobID, path string) {
	if err := s.store.Remove(path); err != nil {
		s.logger.Printf("[job %s] cleanup: failed to remove %s: %v", jobID, path, err)
	}
}
