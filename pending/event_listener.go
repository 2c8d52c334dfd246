package pending

import "time"

type EventListener interface {
	OnSweep(unresolved int, took time.Duration)
}

type SelectiveListener struct {
	OnSweepCb func(unresolved int, took time.Duration)
}

func (l *SelectiveListener) OnSweep(unresolved int, took time.Duration) {
	if l.OnSweepCb != nil {
		l.OnSweepCb(unresolved, took)
	}
}
