package cookiejar

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const maxJarBytes = 1 << 20

const placeholder = `# Netscape HTTP Cookie File
# Upload a real cookie export via POST /upload-cookies to authorize
# restricted content. Lines are: domain flag path secure expiration name value
`

// Jar persists the cookie file handed to the resolver as its auth context.
// Contents are opaque beyond looking like a Netscape cookies.txt export.
type Jar struct {
	Path string
}

// New creates a jar rooted at path.
func New(path string) *Jar {
	return &Jar{Path: path}
}

// EnsurePlaceholder writes a template file at the jar path if absent, so the
// configured path always resolves at startup.
func (j *Jar) EnsurePlaceholder() error {
	if _, err := os.Stat(j.Path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(j.Path, []byte(placeholder), 0o600)
}

// Save validates an uploaded cookie file and persists it atomically.
func (j *Jar) Save(r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, maxJarBytes))
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("empty cookie file")
	}
	if !looksLikeNetscape(data) {
		return errors.New("not a Netscape-format cookie file")
	}

	tmpPath := j.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpPath, j.Path)
}

// looksLikeNetscape accepts content whose non-comment lines all follow the
// seven-field tab-separated cookies.txt layout.
func looksLikeNetscape(data []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	sawContent := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			sawContent = true
			continue
		}
		if len(strings.Split(line, "\t")) < 7 {
			return false
		}
		sawContent = true
	}
	return sawContent && scanner.Err() == nil
}
