package download

import (
	"context"

	dldomain "vidfetch/internal/domain/download"
)

// Resolver is an application port for the external media-resolution tool.
type Resolver interface {
	ListFormats(ctx context.Context, url string, auth dldomain.AuthContext) ([]dldomain.Format, error)
	FetchStream(ctx context.Context, url, selector, destPath string, auth dldomain.AuthContext) error
}

// Muxer is an application port for the external transcoding binary.
type Muxer interface {
	Locate() error
	Mux(ctx context.Context, videoPath, audioPath, outputPath string, trim *dldomain.TrimRange) error
}

// ArtifactStore is an application port for the shared output directory.
type ArtifactStore interface {
	EnsureDir() error
	ArtifactPaths(outputName string) dldomain.ArtifactSet
	Remove(path string) error
	FileExists(path string) bool
}
