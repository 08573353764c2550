package hash

import (
	"crypto/sha256"
	"fmt"
)

// Hasher provides hashing logic to securely store secrets at rest.
type Hasher interface {
	Hash(value string) (string, error)
}

// SHA256Hasher uses SHA256 to hash values with provided salt.
type SHA256Hasher struct {
	salt string
}

func NewSHA256Hasher(salt string) *SHA256Hasher {
	return &SHA256Hasher{salt: salt}
}

func (h *SHA256Hasher) Hash(value string) (string, error) {
	hash := sha256.New()

	if _, err := hash.Write([]byte(value)); err != nil {
		return "", err
	}

	//nolint:perfsprint
	return fmt.Sprintf("%x", hash.Sum([]byte(h.salt))), nil
}
