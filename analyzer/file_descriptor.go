package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FileDescriptor holds everything the explanation pipeline needs to know
// about one source file. Content is owned by the descriptor until the
// scheduler settles the file, after which it is cleared to bound memory.
type FileDescriptor struct {
	Path         string
	RelativePath string
	Content      string
	ContentHash  string
	Language     string
	Size         int64
	ModTime      time.Time
}

// HashContent returns the hex-encoded SHA-256 digest of content. The same
// digest is used by the fingerprint cache to validate records.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
