package orders

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewOrderNumber formats a human-facing order reference:
// ORD-<unix millis in base 36>-<4 random hex digits>, upper-cased.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToUpper("ORD-" + stamp + "-" + hex.EncodeToString(suffix)), nil
}
