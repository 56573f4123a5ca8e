package download

import (
	"fmt"
	"net/url"
	"strings"
)

// Stage identifies where in the pipeline a job failure occurred.
type Stage string

const (
	StageResolvingTool    Stage = "resolving tool"
	StageDownloadingVideo Stage = "downloading video"
	StageDownloadingAudio Stage = "downloading audio"
	StageMuxing           Stage = "muxing"
)

// JobError ties a pipeline failure to the stage that produced it.
type JobError struct {
	Stage Stage
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// TrimRange restricts mux output to [Start, End]. Values are ffmpeg-native
// timestamp strings and are not validated for ordering here; an invalid
// range surfaces as a MuxError from the external tool.
type TrimRange struct {
	Start string
	End   string
}

// JobRequest describes one download-and-assembly job.
type JobRequest struct {
	SourceURL  string
	FormatID   string
	OutputName string
	TrimStart  string
	TrimEnd    string
}

// Validate checks required fields before any external call is made.
func (r JobRequest) Validate() error {
	if err := ValidateURL(r.SourceURL); err != nil {
		return err
	}
	if strings.TrimSpace(r.FormatID) == "" {
		return &InvalidRequest{Field: "format_id", Reason: "required"}
	}
	if _, err := SanitizeOutputName(r.OutputName); err != nil {
		return err
	}
	return nil
}

// Trim returns the requested trim range, or nil when absent. A lone bound
// is ignored: trimming applies only when both start and end are given.
func (r JobRequest) Trim() *TrimRange {
	start := strings.TrimSpace(r.TrimStart)
	end := strings.TrimSpace(r.TrimEnd)
	if start == "" || end == "" {
		return nil
	}
	return &TrimRange{Start: start, End: end}
}

// ArtifactSet holds the three per-job paths inside the artifact store.
type ArtifactSet struct {
	VideoTmp string
	AudioTmp string
	Final    string
}

// ValidateURL checks that raw is a syntactically valid absolute URL.
func ValidateURL(raw string) error {
	value := strings.TrimSpace(raw)
	if value == "" {
		return &InvalidRequest{Field: "url", Reason: "required"}
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &InvalidRequest{Field: "url", Reason: "not a valid URL"}
	}
	return nil
}
