package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffJSON(t *testing.T) {
	equal, diff, err := DiffJSON(map[string]string{"a": "passed"}, map[string]string{"a": "passed"})
	require.NoError(t, err)
	assert.True(t, equal)
	assert.Empty(t, diff)

	equal, diff, err = DiffJSON(map[string]string{"a": "passed"}, map[string]string{"a": "failed"})
	require.NoError(t, err)
	assert.False(t, equal)
	assert.Contains(t, diff, "failed")
}

func TestDiffJSONUnencodable(t *testing.T) {
	_, _, err := DiffJSON(map[string]interface{}{"f": func() {}}, nil)
	assert.Error(t, err)
}

func TestMergeJSON(t *testing.T) {
	base := map[string]string{"username": "testuser", "password": "password123"}
	patch := map[string]string{"username": "other"}

	var merged map[string]string
	require.NoError(t, MergeJSON(base, patch, &merged))
	assert.Equal(t, map[string]string{"username": "other", "password": "password123"}, merged)
}

func TestMergeJSONNullRemovesKey(t *testing.T) {
	base := map[string]string{"username": "testuser", "email": "a@b.c"}
	patch := map[string]interface{}{"email": nil}

	var merged map[string]string
	require.NoError(t, MergeJSON(base, patch, &merged))
	assert.Equal(t, map[string]string{"username": "testuser"}, merged)
}
