package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	require.Equal(t, DefaultListLimit, ClampLimit(0))
	require.Equal(t, DefaultListLimit, ClampLimit(-5))
	require.Equal(t, 10, ClampLimit(10))
	require.Equal(t, MaxListLimit, ClampLimit(1000))
}
