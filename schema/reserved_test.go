package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsReservedField(t *testing.T) {
	require.True(t, IsReservedField("_source"))
	require.True(t, IsReservedField("_timestamp"))
	require.True(t, IsReservedField("__internal"))
	require.False(t, IsReservedField("_id"))
	require.False(t, IsReservedField("id"))
}
