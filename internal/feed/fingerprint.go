package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes a stable content digest for deduplication.
// Title and summary are case-folded and whitespace-collapsed first so
// near-identical re-publications of the same story from mirrored feeds
// collapse to the same digest. Pure function; empty inputs still produce
// a digest.
func Fingerprint(title, summary string) string {
	normalized := normalizeForHash(title) + "\n" + normalizeForHash(summary)
	h := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(h[:])
}

// normalizeForHash lowercases and collapses runs of whitespace to single
// spaces.
func normalizeForHash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
