package utils

import "strings"

func IfElse[T any](test bool, yes, no T) T {
	if test {
		return yes
	}
	return no
}

func DefaultIfZero[T comparable](x, d T) T {
	var zero T
	if x == zero {
		return d
	}
	return x
}

// Mask hides the middle of a secret so it can be logged safely.
func Mask(secret string) string {
	if len(secret) <= 10 {
		return strings.Repeat("●", len(secret))
	}
	return secret[:5] + strings.Repeat("●", min(len(secret)-10, 10)) + secret[len(secret)-5:]
}
