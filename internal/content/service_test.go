package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuhoang/mlhub/internal/blob"
	"github.com/vuhoang/mlhub/internal/llm"
	"github.com/vuhoang/mlhub/internal/topics"
)

func testTopic() topics.Topic {
	return topics.Topic{
		ID:     "neural-networks",
		Title:  "Neural Networks",
		Prompt: "Explain neural networks from first principles.",
	}
}

func TestLoadMissReturnsNotFound(t *testing.T) {
	svc := NewService(blob.NewMemory(), llm.NewMockProvider(), DefaultConfig())

	_, found, err := svc.Load("neural-networks")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveThenLoad(t *testing.T) {
	svc := NewService(blob.NewMemory(), llm.NewMockProvider(), DefaultConfig())

	require.NoError(t, svc.Save("neural-networks", "## Neural Networks\nA lesson."))

	text, found, err := svc.Load("neural-networks")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "## Neural Networks\nA lesson.", text)
}

func TestLoadOrGenerateSaveFailureKeepsText(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("## Generated Lesson\nContent here.")},
	)
	blobs := blob.NewMemory()
	blobs.FailPuts = true
	svc := NewService(blobs, mock, DefaultConfig())

	text, fromCache, err := svc.LoadOrGenerate(context.Background(), testTopic())

	var saveErr *ErrSaveFailed
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, "neural-networks", saveErr.TopicID)

	// The generated lesson survives the failed save.
	assert.Equal(t, "## Generated Lesson\nContent here.", text)
	assert.False(t, fromCache)
}

func TestGenerateSetsLessonPurpose(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("## Generated Lesson\nContent here.")},
	)
	svc := NewService(blob.NewMemory(), mock, DefaultConfig())

	text, err := svc.Generate(context.Background(), testTopic())
	require.NoError(t, err)
	assert.Equal(t, "## Generated Lesson\nContent here.", text)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Contains(t, req.Messages[0].Content, "Explain neural networks")
	assert.Contains(t, req.Messages[0].Content, "Markdown")
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
}

func TestGenerateErrorWrapsGenerationFailed(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
	)
	svc := NewService(blob.NewMemory(), mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), testTopic())
	require.Error(t, err)

	var genErr *ErrGenerationFailed
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "neural-networks", genErr.TopicID)

	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}

func TestGenerateEmptyResponseFails(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("   \n  ")},
	)
	svc := NewService(blob.NewMemory(), mock, DefaultConfig())

	_, err := svc.Generate(context.Background(), testTopic())

	var genErr *ErrGenerationFailed
	require.ErrorAs(t, err, &genErr)
}

func TestLoadOrGenerateCacheMissGeneratesAndSaves(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("## Fresh Lesson")},
	)
	blobs := blob.NewMemory()
	svc := NewService(blobs, mock, DefaultConfig())

	text, fromCache, err := svc.LoadOrGenerate(context.Background(), testTopic())
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "## Fresh Lesson", text)

	// Generated content should now be cached.
	saved, found, err := blobs.Get("saved-content/neural-networks.txt")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "## Fresh Lesson", string(saved))
}

func TestLoadOrGenerateCacheHitSkipsLLM(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(blob.NewMemory(), mock, DefaultConfig())

	require.NoError(t, svc.Save("neural-networks", "## Cached Lesson"))

	text, fromCache, err := svc.LoadOrGenerate(context.Background(), testTopic())
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "## Cached Lesson", text)
	assert.Equal(t, 0, mock.CallCount())
}

func TestLoadOrGenerateSaveFailureSurfaces(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("## Lesson")},
	)
	blobs := blob.NewMemory()
	blobs.FailPuts = true
	svc := NewService(blobs, mock, DefaultConfig())

	_, _, err := svc.LoadOrGenerate(context.Background(), testTopic())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "save lesson"))
}
