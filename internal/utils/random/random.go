package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

var ErrEmpty = errors.New("cannot pick from an empty slice")

// Index returns a uniform random index in [0, n) from a cryptographically
// secure source.
func Index(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmpty
	}
	jBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(jBig.Int64()), nil
}

// Pick returns a uniformly chosen element of the slice.
func Pick[T any](slice []T) (T, error) {
	var zero T
	i, err := Index(len(slice))
	if err != nil {
		return zero, err
	}
	return slice[i], nil
}

// Shuffle performs a cryptographically secure shuffle of the slice.
func Shuffle[T any](slice []T) error {
	for i := len(slice) - 1; i > 0; i-- {
		j, err := Index(i + 1)
		if err != nil {
			return err
		}
		slice[i], slice[j] = slice[j], slice[i]
	}
	return nil
}
