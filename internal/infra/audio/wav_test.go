package audio_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-assistant/internal/infra/audio"
)

func TestEncodeWAV(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768}
	wav := audio.EncodeWAV(samples, 16000)

	require.Len(t, wav, 44+len(samples)*2)
	require.Equal(t, "RIFF", string(wav[0:4]))
	require.Equal(t, uint32(36+len(samples)*2), binary.LittleEndian.Uint32(wav[4:8]))
	require.Equal(t, "WAVE", string(wav[8:12]))
	require.Equal(t, "fmt ", string(wav[12:16]))
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[20:22]), "PCM")
	require.Equal(t, uint16(1), binary.LittleEndian.Uint16(wav[22:24]), "mono")
	require.Equal(t, uint32(16000), binary.LittleEndian.Uint32(wav[24:28]))
	require.Equal(t, uint32(32000), binary.LittleEndian.Uint32(wav[28:32]))
	require.Equal(t, uint16(16), binary.LittleEndian.Uint16(wav[34:36]))
	require.Equal(t, "data", string(wav[36:40]))
	require.Equal(t, uint32(len(samples)*2), binary.LittleEndian.Uint32(wav[40:44]))

	for i, s := range samples {
		require.Equal(t, s, int16(binary.LittleEndian.Uint16(wav[44+i*2:])))
	}
}
