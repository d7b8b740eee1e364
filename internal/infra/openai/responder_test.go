package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponderDefaults(t *testing.T) {
	responder, err := NewResponder("dummy-key")
	require.NoError(t, err)

	assert.Equal(t, DefaultChatModel, responder.ModelName())
	assert.Equal(t, DefaultTemperature, responder.temperature)
	assert.Equal(t, DefaultFrequencyPenalty, responder.frequencyPenalty)
}

func TestNewResponderOptionsOverrideDefaults(t *testing.T) {
	responder, err := NewResponder("dummy-key",
		WithChatModel("gpt-4o"),
		WithTemperature(0.9),
		WithFrequencyPenalty(0.1),
	)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", responder.ModelName())
	assert.Equal(t, 0.9, responder.temperature)
	assert.Equal(t, 0.1, responder.frequencyPenalty)
}

func TestNewResponderRequiresAPIKey(t *testing.T) {
	_, err := NewResponder("")
	assert.ErrorIs(t, err, ErrAPIKeyNotSet)
}

func TestBuildMessagesOrder(t *testing.T) {
	messages := buildMessages("Episode 42: Mars and Memes", "An episode Elon Musk would enjoy")

	// システムメッセージ1件、ユーザーメッセージ1件の順
	require.Len(t, messages, 2)
	assert.NotNil(t, messages[0].OfSystem)
	assert.NotNil(t, messages[1].OfUser)
}
