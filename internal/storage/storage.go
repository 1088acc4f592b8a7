// Package storage persists uploaded plant images.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open when no upload has the given name.
var ErrNotFound = errors.New("upload not found")

// PublicPrefix is the route uploads are served from.
const PublicPrefix = "/uploads/"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadName builds a collision-free object name: <unix millis>_<uuid8>_<sanitized original>.
func UploadName(now time.Time, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d_%s_%s", now.UnixMilli(), uuid.NewString()[:8], base)
}

// PublicPath returns the URL path the upload is served under.
func PublicPath(name string) string {
	return PublicPrefix + name
}

// validName rejects names that would escape the upload root.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && name == filepath.Base(name) && !strings.ContainsAny(name, `/\`)
}
