package audio

// Endpointer decides when an utterance is over: speech must have been heard,
// followed by at least PauseFrames samples of silence. MaxFrames caps the clip.
type Endpointer struct {
	Threshold   int16
	PauseFrames int
	MaxFrames   int

	heard   bool
	silence int
	total   int
}

// Feed accounts for one buffer of samples and reports whether capture should stop.
func (e *Endpointer) Feed(buf []int16) bool {
	e.total += len(buf)

	if !isQuiet(buf, e.Threshold) {
		e.heard = true
		e.silence = 0
	} else if e.heard {
		e.silence += len(buf)
	}

	if e.MaxFrames > 0 && e.total >= e.MaxFrames {
		return true
	}
	return e.heard && e.silence >= e.PauseFrames
}

// Heard reports whether any speech was detected.
func (e *Endpointer) Heard() bool {
	return e.heard
}
