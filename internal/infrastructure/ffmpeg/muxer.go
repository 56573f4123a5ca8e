package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"vidfetch/internal/domain/download"
)

// Muxer wraps the ffmpeg binary for combining a video stream and an audio
// stream into one container, optionally trimmed to a time range.
type Muxer struct {
	Path string
}

// NewMuxer creates an ffmpeg adapter. An empty path falls back to PATH lookup.
func NewMuxer(path string) *Muxer {
	if path == "" {
		path = "ffmpeg"
	}
	return &Muxer{Path: path}
}

// Locate verifies the configured binary can be found. It must be called
// before any job I/O so a missing tool is reported up front.
func (m *Muxer) Locate() error {
	if strings.ContainsRune(m.Path, os.PathSeparator) {
		info, err := os.Stat(m.Path)
		if err != nil || info.IsDir() {
			return download.ErrToolUnavailable
		}
		return nil
	}
	if _, err := exec.LookPath(m.Path); err != nil {
		return download.ErrToolUnavailable
	}
	return nil
}

// Mux combines videoPath and audioPath into outputPath: video stream copied
// unchanged, audio re-encoded to AAC. A present trim restricts output to
// [Start, End] using ffmpeg's own time-range semantics. On failure nothing
// durable is guaranteed at outputPath; any partial file is the caller's to
// remove.
func (m *Muxer) Mux(ctx context.Context, videoPath, audioPath, outputPath string, trim *download.TrimRange) error {
	cmd := exec.CommandContext(ctx, m.Path, buildMuxArgs(videoPath, audioPath, outputPath, trim)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &download.MuxError{ExitCode: exitCode, Stderr: tailOf(stderr.String())}
	}
	return nil
}

func buildMuxArgs(videoPath, audioPath, outputPath string, trim *download.TrimRange) []string {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-strict", "experimental",
	}
	if trim != nil {
		args = append(args, "-ss", trim.Start, "-to", trim.End)
	}
	return append(args, outputPath)
}

// tailOf keeps the last few lines of ffmpeg's chatter; the failure cause is
// always at the end.
func tailOf(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
