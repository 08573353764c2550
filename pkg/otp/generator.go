package otp

import "github.com/xlzd/gotp"

// Generator issues one-time confirmation codes.
type Generator interface {
	RandomCode(length int) string
}

type GOTPGenerator struct{}

func NewGOTPGenerator() *GOTPGenerator {
	return &GOTPGenerator{}
}

// RandomCode returns a numeric code of the given length derived from a
// freshly generated secret.
func (g *GOTPGenerator) RandomCode(length int) string {
	secret := gotp.RandomSecret(16)

	return gotp.NewTOTP(secret, length, 30, nil).Now()
}
