// Package speech implements the screening engine's speech capability on
// top of a system text-to-speech binary. Playback failures are silent by
// design: the completion callback always fires, and the orchestrator's
// wait ceiling covers the case where even that goes missing.
package speech

import (
	"os/exec"
	"sync"
)

// Speaker matches the screening package's speech interface.
type Speaker interface {
	Speak(text string, done func())
	Cancel()
}

// candidates are probed in order by Detect.
var candidates = [][]string{
	{"espeak-ng"},
	{"espeak"},
	{"say"},
	{"spd-say", "--wait"},
}

// Detect returns an ExecSpeaker for the first available TTS binary, or a
// NullSpeaker when none is installed.
func Detect() Speaker {
	for _, c := range candidates {
		if path, err := exec.LookPath(c[0]); err == nil {
			return &ExecSpeaker{path: path, args: c[1:]}
		}
	}
	return NullSpeaker{}
}

// ExecSpeaker shells out to a TTS binary, one process per utterance. A new
// Speak supersedes any utterance still playing.
type ExecSpeaker struct {
	path string
	args []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewExecSpeaker builds a speaker for an explicit command, used when the
// operator configures one in settings.
func NewExecSpeaker(command string, args ...string) (*ExecSpeaker, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, err
	}
	return &ExecSpeaker{path: path, args: args}, nil
}

// Speak starts playback and invokes done from a fresh goroutine when the
// process exits, successfully or not. It never blocks on playback and
// never reports errors to the caller. The process is started under the
// mutex so its handle is fully published before Cancel can observe the
// command; the goroutine only waits.
func (e *ExecSpeaker) Speak(text string, done func()) {
	e.Cancel()

	cmd := exec.Command(e.path, append(append([]string(nil), e.args...), text)...)

	e.mu.Lock()
	if err := cmd.Start(); err != nil {
		e.mu.Unlock()
		go done()
		return
	}
	e.cmd = cmd
	e.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		e.mu.Lock()
		if e.cmd == cmd {
			e.cmd = nil
		}
		e.mu.Unlock()
		done()
	}()
}

// Cancel kills any in-flight utterance.
func (e *ExecSpeaker) Cancel() {
	e.mu.Lock()
	cmd := e.cmd
	e.cmd = nil
	e.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}

// NullSpeaker is the silent fallback: every utterance "completes"
// immediately, keeping sound tasks usable as visual-only trials.
type NullSpeaker struct{}

func (NullSpeaker) Speak(_ string, done func()) {
	go done()
}

func (NullSpeaker) Cancel() {}
