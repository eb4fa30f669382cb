package fileid

import (
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultExtension is used when an uploaded file name carries no extension.
const DefaultExtension = ".png"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lower-case ULID string.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// StoredName builds a collision resistant file name that keeps the original extension.
func StoredName(originalName string) string {
	return New() + Extension(originalName)
}

// Extension returns the lower-cased extension of name, or DefaultExtension.
func Extension(name string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if ext == "" || ext == "." {
		return DefaultExtension
	}
	return ext
}

// IsValid reports whether value (without extension) parses as a ULID.
func IsValid(value string) bool {
	value = strings.TrimSuffix(value, filepath.Ext(value))
	_, err := ulid.ParseStrict(strings.ToUpper(value))
	return err == nil
}
