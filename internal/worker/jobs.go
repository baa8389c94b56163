package worker

import (
	"context"
	"time"
)

// BreachSweeper latches overdue SLA timers nobody has read yet.
type BreachSweeper interface {
	SweepBreaches(ctx context.Context, limit int32) (int, error)
}

// IdleReturner returns conversations whose customer has waited too long for
// the assigned agent.
type IdleReturner interface {
	ReturnIdle(ctx context.Context, idleFor time.Duration, limit int32) (int, error)
}

func BreachSweepJob(sla BreachSweeper, interval time.Duration, batch int32) Job {
	return Job{
		Name:     "sla_breach_sweep",
		Interval: interval,
		Run: func(ctx context.Context) (int, error) {
			return sla.SweepBreaches(ctx, batch)
		},
	}
}

func IdleReturnJob(queue IdleReturner, idleFor, interval time.Duration, batch int32) Job {
	return Job{
		Name:     "idle_return",
		Interval: interval,
		Run: func(ctx context.Context) (int, error) {
			return queue.ReturnIdle(ctx, idleFor, batch)
		},
	}
}
