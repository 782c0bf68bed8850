package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateToken returns a random API token of the form
// colorname_<yyyymmdd>_<32 hex chars>.
func GenerateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return fmt.Sprintf("colorname_%s_%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(b)), nil
}
