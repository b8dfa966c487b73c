// Package storage persists uploaded project attachments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when an attachment does not exist.
var ErrNotFound = errors.New("attachment not found")

// Store saves and serves attachments by name.
type Store interface {
	Save(ctx context.Context, name string, body io.Reader, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ObjectName builds the stored name of an uploaded file:
// "<unix millis>-<base filename>". Directory components are dropped.
func ObjectName(submittedAt time.Time, filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", submittedAt.UnixMilli(), base)
}

// ObjectNames names the files of one submission. Repeated names get a
// "-<n>" suffix before the extension so no file replaces another.
func ObjectNames(submittedAt time.Time, filenames []string) []string {
	names := make([]string, len(filenames))
	used := make(map[string]bool, len(filenames))
	for i, filename := range filenames {
		name := ObjectName(submittedAt, filename)
		if used[name] {
			ext := filepath.Ext(name)
			stem := strings.TrimSuffix(name, ext)
			for n := 1; used[name]; n++ {
				name = fmt.Sprintf("%s-%d%s", stem, n, ext)
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && name != "." && name != ".."
}
