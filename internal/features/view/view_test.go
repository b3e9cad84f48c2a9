package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		token string
		want  View
	}{
		{"admin", Admin},
		{"wish-input", WishInput},
		{"lottery", Lottery},
		{"#/wish-input", WishInput},
		{"#/lottery", Lottery},
		{"/lottery/", Lottery},
		{"", Admin},
		{"#/", Admin},
		{"nonsense", Admin},
		{"LOTTERY", Admin}, // tokens are case-sensitive
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, Resolve(tc.token), "token %q", tc.token)
	}
}

func TestRouter(t *testing.T) {
	r := NewRouter()
	require.Equal(t, Admin, r.Current())

	require.Equal(t, Lottery, r.Navigate("lottery"))
	require.Equal(t, Lottery, r.Current())

	// No guards: every view is reachable from every other.
	require.Equal(t, WishInput, r.Navigate("#/wish-input"))
	require.Equal(t, WishInput, r.Current())

	// Unrecognized tokens fall back to Admin.
	require.Equal(t, Admin, r.Navigate("garbage"))
	require.Equal(t, Admin, r.Current())
}
