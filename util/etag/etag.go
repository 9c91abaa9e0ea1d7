// Package etag derives weak HTTP cache validators from response payloads.
package etag

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/goccy/go-json"
)

// ETagFor serializes the payload to JSON, hashes it with SHA-1 and formats
// the digest as a weak validator. Payloads are plain structs, so the
// encoding (and therefore the tag) is stable for equal values. The tag only
// short-circuits conditional GETs; it carries no security weight.
func ETagFor(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha1.Sum(data)
	return fmt.Sprintf(`W/"%s"`, hex.EncodeToString(sum[:])), nil
}
