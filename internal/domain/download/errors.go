package download

import (
	"errors"
	"fmt"
)

// ErrToolUnavailable indicates the configured ffmpeg binary could not be located.
// Its message is served to clients verbatim.
var ErrToolUnavailable = errors.New("FFmpeg not found. Cannot proceed.")

// ResolutionError describes a failed resolver invocation (network or extraction).
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string {
	return "download error: " + e.Reason
}

// MuxError describes a non-zero exit from the transcoding step.
type MuxError struct {
	ExitCode int
	Stderr   string
}

func (e *MuxError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("ffmpeg exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("ffmpeg exited with code %d: %s", e.ExitCode, e.Stderr)
}

// InvalidRequest describes a missing or malformed request field, caught
// before any external call.
type InvalidRequest struct {
	Field  string
	Reason string
}

func (e *InvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}
