package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.ormside.net/rke/blogbuilder/internal/config"
)

func TestNewPublisher_DisabledFails(t *testing.T) {
	_, err := NewPublisher(config.EventsConfig{Enabled: false})
	require.Error(t, err)
}

func TestBuildCompleted_PayloadShape(t *testing.T) {
	event := BuildCompleted{
		BuildID:    "b1",
		Outcome:    "success",
		Pages:      12,
		Drafts:     3,
		StartedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		DurationMS: 245,
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, "b1", decoded["build_id"])
	require.Equal(t, "success", decoded["outcome"])
	require.NotContains(t, decoded, "error", "empty error must be omitted")
}
