package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns one of each Store implementation for shared behavior tests.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"dir":    dir,
		"memory": NewMemory(),
	}
}

func TestGetMissingKey(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := s.Get("saved-content/nope.txt")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, data)
		})
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("saved-content/what-is-ml.txt", []byte("# Lesson")))

			data, ok, err := s.Get("saved-content/what-is-ml.txt")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "# Lesson", string(data))
		})
	}
}

func TestPutOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("k.txt", []byte("one")))
			require.NoError(t, s.Put("k.txt", []byte("two")))

			data, ok, err := s.Get("k.txt")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "two", string(data))
		})
	}
}

func TestListByPrefix(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put("saved-content/quizzes/a/quiz-1.json", []byte("{}")))
			require.NoError(t, s.Put("saved-content/quizzes/a/quiz-2.json", []byte("{}")))
			require.NoError(t, s.Put("saved-content/quizzes/b/quiz-1.json", []byte("{}")))
			require.NoError(t, s.Put("saved-content/a.txt", []byte("x")))

			keys, err := s.List("saved-content/quizzes/a/")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"saved-content/quizzes/a/quiz-1.json",
				"saved-content/quizzes/a/quiz-2.json",
			}, keys)
		})
	}
}

func TestListEmptyPrefix(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := s.List("saved-content/quizzes/missing/")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestDirRejectsEscapingKeys(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	_, _, err = dir.Get("../outside.txt")
	assert.Error(t, err)

	err = dir.Put("../outside.txt", []byte("x"))
	assert.Error(t, err)
}

func TestMemoryFailPuts(t *testing.T) {
	m := NewMemory()
	m.FailPuts = true
	assert.Error(t, m.Put("k", []byte("v")))
	assert.Equal(t, 0, m.Len())
}
