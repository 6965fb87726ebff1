package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.PutObject(ctx, "reports/2024/summary.csv", []byte("Metric,Value\n"), "text/csv"))
	require.NoError(t, s.PutObject(ctx, "imports/sales.csv", []byte("x"), "text/csv"))

	data, err := s.GetObject(ctx, "reports/2024/summary.csv")
	require.NoError(t, err)
	assert.Equal(t, "Metric,Value\n", string(data))

	objects, err := s.ListObjects(ctx, "reports/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "reports/2024/summary.csv", objects[0].Key)
	assert.Equal(t, int64(13), objects[0].Size)

	_, err = s.GetObject(ctx, "missing.csv")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestLocalStorageKeysStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	p, err := s.path("../../etc/passwd")
	require.NoError(t, err)
	assert.Contains(t, p, root)
}
