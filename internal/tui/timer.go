package tui

import "time"

// timerState tracks the current state of the countdown.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// timerModel is a pausable countdown, kept separate from display.
type timerModel struct {
	now func() time.Time

	state     timerState
	length    time.Duration
	startTime time.Time
	pausedAt  time.Time // when paused, to compute pause gap
	pauseGap  time.Duration
}

func newTimerModel() timerModel {
	return timerModel{now: time.Now, state: timerStopped}
}

func (t *timerModel) start(length time.Duration) {
	t.state = timerRunning
	t.length = length
	t.startTime = t.now()
	t.pauseGap = 0
}

func (t *timerModel) stop() {
	t.state = timerStopped
	t.pauseGap = 0
}

func (t *timerModel) pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = t.now()
}

func (t *timerModel) resume() {
	if t.state != timerPaused {
		return
	}
	t.pauseGap += t.now().Sub(t.pausedAt)
	t.state = timerRunning
}

func (t *timerModel) toggle() {
	switch t.state {
	case timerRunning:
		t.pause()
	case timerPaused:
		t.resume()
	}
}

func (t timerModel) running() bool {
	return t.state != timerStopped
}

func (t timerModel) paused() bool {
	return t.state == timerPaused
}

// elapsed is the active time since start, excluding pauses.
func (t timerModel) elapsed() time.Duration {
	switch t.state {
	case timerStopped:
		return 0
	case timerPaused:
		return t.pausedAt.Sub(t.startTime) - t.pauseGap
	}
	return t.now().Sub(t.startTime) - t.pauseGap
}

func (t timerModel) remaining() time.Duration {
	if t.state == timerStopped {
		return t.length
	}
	return max(t.length-t.elapsed(), 0)
}

func (t timerModel) done() bool {
	return t.state == timerRunning && t.remaining() <= 0
}
