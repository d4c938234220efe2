package audio

import "time"

type MicrophoneConfig struct {
	SampleRate int
	// Threshold is the absolute sample amplitude above which a buffer counts as speech.
	Threshold int16
	// PauseThreshold is how long the speaker must stay silent to end an utterance.
	PauseThreshold time.Duration
	MaxDuration    time.Duration
}

func (c MicrophoneConfig) withDefaults() MicrophoneConfig {
	if c.SampleRate == 0 {
		c.SampleRate = 16000
	}
	if c.Threshold == 0 {
		c.Threshold = 500
	}
	if c.PauseThreshold == 0 {
		c.PauseThreshold = time.Second
	}
	if c.MaxDuration == 0 {
		c.MaxDuration = 30 * time.Second
	}
	return c
}

func (c MicrophoneConfig) endpointer() *Endpointer {
	return &Endpointer{
		Threshold:   c.Threshold,
		PauseFrames: frames(c.PauseThreshold, c.SampleRate),
		MaxFrames:   frames(c.MaxDuration, c.SampleRate),
	}
}

func frames(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

func isQuiet(buf []int16, threshold int16) bool {
	for _, s := range buf {
		if s > threshold || s < -threshold {
			return false
		}
	}
	return true
}
