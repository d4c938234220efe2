package speech_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-assistant/internal/infra/speech"
)

func TestConsole_Speak(t *testing.T) {
	var buf bytes.Buffer
	c := speech.NewConsole(&buf, "Assistant: ")

	require.NoError(t, c.Speak(context.Background(), "It is **sunny**."))
	require.NoError(t, c.Speak(context.Background(), "   "))
	require.NoError(t, c.Speak(context.Background(), "Goodbye!"))

	require.Equal(t, "Assistant: It is sunny.\nAssistant: Goodbye!\n", buf.String())
}

func TestConsole_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	c := speech.NewConsole(&buf, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.Speak(ctx, "hello"), context.Canceled)
	require.Empty(t, buf.String())
}
