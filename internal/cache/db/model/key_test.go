package model

import (
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

// TestGenerateKey is deterministic and namespaced.
func TestGenerateKey(t *testing.T) {
	k1 := GenerateKey("fact", "what is the revenue of acme?")
	k2 := GenerateKey("fact", "what is the revenue of acme?")
	k3 := GenerateKey("fact", "what is the revenue of globex?")
	k4 := GenerateKey("other", "what is the revenue of acme?")

	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
	require.NotEqual(t, k1, k4)
	require.True(t, strings.HasPrefix(k1, "fact:"))
	require.Len(t, k1, len("fact:")+32)
}

// TestGenerateKey_NoAmbiguity separates prefix and query.
func TestGenerateKey_NoAmbiguity(t *testing.T) {
	require.NotEqual(t, GenerateKey("ab", "c"), GenerateKey("a", "bc"))
}

// TestKeyPrefix extracts the namespace.
func TestKeyPrefix(t *testing.T) {
	require.Equal(t, "fact", KeyPrefix(GenerateKey("fact", "q")))
	require.Equal(t, "tenant:fact", KeyPrefix(GenerateKey("tenant:fact", "q")))
	require.Equal(t, "", KeyPrefix("nokey"))
}
