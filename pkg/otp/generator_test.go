package otp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomCodeLengthAndDigits(t *testing.T) {
	generator := NewGOTPGenerator()

	for _, length := range []int{4, 6, 8} {
		code := generator.RandomCode(length)
		require.Len(t, code, length)

		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
	}
}
