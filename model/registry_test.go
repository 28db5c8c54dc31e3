package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAdd(t *testing.T) {
	t.Run("Adds and retrieves a profile", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Add(NewProfile("1", "John Smith")))

		p, ok := reg.Get("1")
		require.True(t, ok)
		assert.Equal(t, "John Smith", p.Name)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("Rejects a duplicate id", func(t *testing.T) {
		reg := NewRegistry()
		require.NoError(t, reg.Add(NewProfile("1", "John Smith")))

		err := reg.Add(NewProfile("1", "John Smith the elder"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate profile id "1"`)

		p, _ := reg.Get("1")
		assert.Equal(t, "John Smith", p.Name, "Expected the first profile to survive")
	})
}

func TestRegistryAll(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(NewProfile("2", "B")))
	require.NoError(t, reg.Add(NewProfile("10", "C")))
	require.NoError(t, reg.Add(NewProfile("1", "A")))

	t.Run("All preserves insertion order", func(t *testing.T) {
		all := reg.All()
		require.Len(t, all, 3)
		assert.Equal(t, "2", all[0].ID)
		assert.Equal(t, "10", all[1].ID)
		assert.Equal(t, "1", all[2].ID)
	})

	t.Run("IDs are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"1", "10", "2"}, reg.IDs())
	})
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(NewProfile("1", "A")))
	require.NoError(t, reg.Add(NewProfile("2", "B")))

	reg.Remove("1")
	_, ok := reg.Get("1")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())

	all := reg.All()
	require.Len(t, all, 1)
	assert.Equal(t, "2", all[0].ID)

	// removing an unknown id is a no-op
	reg.Remove("unknown")
	assert.Equal(t, 1, reg.Len())
}
