package snake

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// timerSlot holds at most one pending callback of a kind.
// Every cancel bumps gen, so a callback that already fired but is still
// waiting for the engine lock recognises itself as stale.
type timerSlot struct {
	timer    core.Timer
	gen      uint64
	deadline time.Time

	suspended bool
	left      time.Duration
	fire      func()
}

func (s *timerSlot) pending() bool {
	return s.timer != nil
}

// cancel stops the pending callback, if any, and forgets a suspended one.
func (s *timerSlot) cancel() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.suspended = false
	s.left = 0
}

// schedule replaces whatever the slot holds with fire after d. Caller holds e.mu.
func (e *Engine) schedule(s *timerSlot, d time.Duration, fire func()) {
	s.cancel()
	gen := s.gen
	s.fire = fire
	s.deadline = e.clock.Now().Add(d)
	s.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		if e.closed || s.gen != gen {
			e.mu.Unlock()
			return
		}
		s.timer = nil
		fire()
		e.unlockAndDispatch()
	})
}

// suspend cancels the pending callback but remembers the time it had left.
func (e *Engine) suspend(s *timerSlot) {
	if s.timer == nil {
		return
	}
	left := max(s.deadline.Sub(e.clock.Now()), 0)
	fire := s.fire
	s.cancel()
	s.suspended = true
	s.left = left
	s.fire = fire
}

// resumeSlot re-arms a suspended callback with its remaining time.
func (e *Engine) resumeSlot(s *timerSlot) {
	if !s.suspended {
		return
	}
	e.schedule(s, s.left, s.fire)
}

func (e *Engine) cancelAll() {
	e.tickSlot.cancel()
	e.doubleSlot.cancel()
	e.boostSlot.cancel()
	e.deathSlot.cancel()
}

// effectiveSpeed composes the base factor with the temporary boost.
// The boost is never folded into baseSpeed, so expiry restores it exactly.
func (e *Engine) effectiveSpeed() float64 {
	if e.speedBoost {
		return e.baseSpeed * e.cfg.Effects.SpeedBoostMultiplier
	}
	return e.baseSpeed
}

func (e *Engine) setBaseSpeed(v float64) {
	e.baseSpeed = core.ClampF(v, e.cfg.Speed.Min, e.cfg.Speed.Max)
}

// tickInterval returns the delay before the next tick.
// While pulsating, the delay is stretched by up to PulseAmplitude following a sine wave.
func (e *Engine) tickInterval() time.Duration {
	d := float64(e.cfg.Speed.TickInterval.Std()) / e.effectiveSpeed()
	if e.speedBoost {
		scale := float64(e.cfg.Speed.PulseScale.Std()) / float64(time.Millisecond)
		phase := float64(e.clock.Now().UnixMilli()) / scale
		pulse := 0.5 + 0.5*math.Sin(phase)
		d *= 1 + pulse*e.cfg.Speed.PulseAmplitude
	}
	return max(time.Duration(d), time.Millisecond)
}

func (e *Engine) activateDoubleScore() {
	e.doubleScore = true
	e.schedule(&e.doubleSlot, e.cfg.Effects.DoubleScore.Std(), func() {
		e.doubleScore = false
		e.log.Debug("double score expired", "episode", e.episode)
		e.emit()
	})
}

func (e *Engine) activateSpeedBoost() {
	e.speedBoost = true
	e.schedule(&e.boostSlot, e.cfg.Effects.SpeedBoost.Std(), func() {
		e.speedBoost = false
		e.log.Debug("speed boost expired", "episode", e.episode, "speed", e.baseSpeed)
		e.emit()
	})
}

// clearEffects ends both timed effects immediately.
func (e *Engine) clearEffects() {
	e.doubleSlot.cancel()
	e.boostSlot.cancel()
	e.doubleScore = false
	e.speedBoost = false
}
