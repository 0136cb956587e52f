package draft

import (
	"crypto/rand"
	"math/big"

	"github.com/gosimple/slug"
)

const slugSuffixLength = 6

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewSlug derives a URL-safe slug from the project name plus a random
// suffix, so two projects sharing a name still get distinct slugs. Assigned
// once at first publish and stable thereafter.
func NewSlug(name string) string {
	return slug.Make(name) + "-" + randomSuffix(slugSuffixLength)
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back
			// to a fixed character rather than panic mid-publish.
			out[i] = 'x'
			continue
		}
		out[i] = slugAlphabet[idx.Int64()]
	}
	return string(out)
}
