package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, topic := range Catalog {
		assert.False(t, seen[topic.ID], "duplicate topic id %q", topic.ID)
		seen[topic.ID] = true
	}
}

func TestCatalogEntriesComplete(t *testing.T) {
	require.NotEmpty(t, Catalog)
	for _, topic := range Catalog {
		assert.NotEmpty(t, topic.ID)
		assert.NotEmpty(t, topic.Title)
		assert.NotEmpty(t, topic.Prompt)
	}
}

func TestFind(t *testing.T) {
	topic, ok := Find("neural-networks")
	require.True(t, ok)
	assert.Equal(t, "Neural Network Basics", topic.Title)

	_, ok = Find("no-such-topic")
	assert.False(t, ok)
}
