package download

import "strings"

// SanitizeOutputName validates a caller-supplied output name and returns the
// trimmed form. Names become artifact file names directly under the shared
// store directory, so path separators, traversal sequences and control
// characters are rejected rather than escaped.
func SanitizeOutputName(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &InvalidRequest{Field: "output_filename", Reason: "required"}
	}
	if value == "." || value == ".." || strings.Contains(value, "..") {
		return "", &InvalidRequest{Field: "output_filename", Reason: "traversal sequence not allowed"}
	}
	if strings.ContainsAny(value, "/\\") {
		return "", &InvalidRequest{Field: "output_filename", Reason: "path separators not allowed"}
	}
	for _, r := range value {
		if r < 0x20 || r == 0x7f {
			return "", &InvalidRequest{Field: "output_filename", Reason: "control characters not allowed"}
		}
	}
	return value, nil
}
