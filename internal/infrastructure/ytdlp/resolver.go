package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"vidfetch/internal/domain/download"
)

// Resolver wraps the yt-dlp binary for format enumeration and single-stream
// downloads. The companion ffmpeg path is forwarded on every invocation
// because yt-dlp depends on it for metadata in some extraction paths.
type Resolver struct {
	BinaryPath string
	FFmpegPath string
}

// NewResolver creates a yt-dlp adapter. Empty paths fall back to PATH lookup.
func NewResolver(binaryPath, ffmpegPath string) *Resolver {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &Resolver{BinaryPath: binaryPath, FFmpegPath: ffmpegPath}
}

// ListFormats enumerates available formats for url in metadata-only mode.
func (r *Resolver) ListFormats(ctx context.Context, url string, auth download.AuthContext) ([]download.Format, error) {
	args := []string{"-J", "--no-warnings"}
	args = r.appendCommonArgs(args, auth)
	args = append(args, url)

	out, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseFormats(out)
}

// FetchStream downloads exactly one stream selector to destPath. The selector
// is a literal format id, or "bestaudio" for audio-only fetches. A single
// invocation failure is surfaced verbatim; there is no retry.
func (r *Resolver) FetchStream(ctx context.Context, url, selector, destPath string, auth download.AuthContext) error {
	args := []string{"-f", selector, "-o", destPath, "--no-playlist", "--no-warnings"}
	args = r.appendCommonArgs(args, auth)
	args = append(args, url)

	_, err := r.run(ctx, args)
	return err
}

func (r *Resolver) appendCommonArgs(args []string, auth download.AuthContext) []string {
	if r.FFmpegPath != "" {
		args = append(args, "--ffmpeg-location", r.FFmpegPath)
	}
	if auth.CookiesFile != "" {
		if info, err := os.Stat(auth.CookiesFile); err == nil && !info.IsDir() {
			args = append(args, "--cookies", auth.CookiesFile)
		}
	}
	for _, extractorArg := range auth.ExtractorArgs {
		args = append(args, "--extractor-args", extractorArg)
	}
	return args
}

func (r *Resolver) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.BinaryPath, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		return nil, &download.ResolutionError{Reason: reason}
	}
	return stdout.Bytes(), nil
}

type probeInfo struct {
	Formats []probeFormat `json:"formats"`
}

type probeFormat struct {
	FormatID string  `json:"format_id"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	Filesize int64   `json:"filesize"`
	Ext      string  `json:"ext"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
}

func parseFormats(data []byte) ([]download.Format, error) {
	var info probeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, &download.ResolutionError{Reason: "unreadable metadata: " + err.Error()}
	}

	formats := make([]download.Format, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f.FormatID == "" {
			continue
		}
		formats = append(formats, download.Format{
			ID:       f.FormatID,
			Height:   f.Height,
			FPS:      f.FPS,
			Filesize: f.Filesize,
			Ext:      f.Ext,
			Kind:     download.KindFromCodecs(f.VCodec, f.ACodec),
		})
	}
	return formats, nil
}
