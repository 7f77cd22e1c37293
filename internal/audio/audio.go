// Package audio emits fire-and-forget sound cues for game events. Sound
// asset playback is out of scope; sinks ring the terminal bell or log the
// cue. Failures never reach the game.
package audio

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mindora-runner/internal/config"
)

// Cue names a sound.
type Cue string

const (
	CueJump          Cue = "jump"
	CueCoin          Cue = "coin"
	CueObstacle      Cue = "obstacle"
	CueQuiz          Cue = "quiz"
	CueAnswerCorrect Cue = "answer_correct"
	CueAnswerWrong   Cue = "answer_wrong"
	CueComplete      Cue = "complete"
	CueStart         Cue = "start"
	CueButton        Cue = "button"
)

// Emitter plays cues. Implementations must not block and must swallow
// their own errors.
type Emitter interface {
	Play(c Cue)
}

// Sink is the output stage of a Mixer.
type Sink interface {
	Emit(c Cue, volume float64) error
}

// Nop discards every cue.
type Nop struct{}

// Play implements Emitter.
func (Nop) Play(Cue) {}

// Mixer applies the volume table and mute switch before handing cues to a
// sink.
type Mixer struct {
	sink    Sink
	logger  *log.Logger
	master  float64
	volumes map[Cue]float64
	muted   atomic.Bool
}

// NewMixer builds a mixer from configuration. A disabled config starts muted.
func NewMixer(cfg config.AudioConfig, sink Sink, logger *log.Logger) *Mixer {
	m := &Mixer{
		sink:    sink,
		logger:  logger,
		master:  cfg.Master,
		volumes: make(map[Cue]float64, len(cfg.Volumes)),
	}
	for name, v := range cfg.Volumes {
		m.volumes[Cue(name)] = v
	}
	m.muted.Store(!cfg.Enabled)
	return m
}

// Volume returns the effective volume of a cue in [0, 1].
func (m *Mixer) Volume(c Cue) float64 {
	v := m.volumes[c] * m.master
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Muted reports whether cues are suppressed.
func (m *Mixer) Muted() bool {
	return m.muted.Load()
}

// ToggleMute flips the mute switch and returns the new state.
func (m *Mixer) ToggleMute() bool {
	for {
		old := m.muted.Load()
		if m.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Play implements Emitter.
func (m *Mixer) Play(c Cue) {
	if m.Muted() || m.sink == nil {
		return
	}
	v := m.Volume(c)
	if v == 0 {
		return
	}
	if err := m.sink.Emit(c, v); err != nil && m.logger != nil {
		m.logger.Debug("sound cue failed", "cue", c, "error", err)
	}
}

// BellSink rings the terminal bell for cues at or above a volume threshold.
type BellSink struct {
	mu  sync.Mutex
	w   io.Writer
	min float64
}

// NewBellSink writes BEL to w for cues with volume >= min.
func NewBellSink(w io.Writer, min float64) *BellSink {
	return &BellSink{w: w, min: min}
}

// Emit implements Sink.
func (b *BellSink) Emit(_ Cue, volume float64) error {
	if volume < b.min {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.w.Write([]byte{'\a'})
	return err
}

// LogSink records cues at debug level.
type LogSink struct {
	Logger *log.Logger
}

// Emit implements Sink.
func (s LogSink) Emit(c Cue, volume float64) error {
	s.Logger.Debug("sound", "cue", c, "volume", volume)
	return nil
}

// Multi fans a cue out to several sinks and returns the first error.
type Multi []Sink

// Emit implements Sink.
func (ms Multi) Emit(c Cue, volume float64) error {
	var first error
	for _, s := range ms {
		if err := s.Emit(c, volume); err != nil && first == nil {
			first = err
		}
	}
	return first
}
