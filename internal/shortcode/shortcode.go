// Package shortcode generates and validates short codes.
package shortcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/vadimbarashkov/clicktrail/internal/entity"
)

// Length is the number of hex characters kept from the digest.
const Length = 6

var customCodeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// Generator derives short codes from the URL and the current time.
// It does not check uniqueness; callers retry on collision.
type Generator struct {
	now func() time.Time
}

// NewGenerator returns a Generator backed by the wall clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate hashes url together with a nanosecond timestamp and truncates the
// hex digest to Length characters. Consecutive calls yield different codes
// as long as the clock advances.
func (g *Generator) Generate(url string) string {
	input := url + strconv.FormatInt(g.now().UnixNano(), 10)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:Length]
}

// ValidateCustomCode reports whether code may be used as a custom short code.
// An empty code is valid and means one should be generated.
func ValidateCustomCode(code string) error {
	if code == "" {
		return nil
	}

	if !customCodeRe.MatchString(code) {
		return fmt.Errorf("%w: must be 3-20 characters of letters, digits, '_' or '-'", entity.ErrInvalidCustomCode)
	}

	return nil
}
