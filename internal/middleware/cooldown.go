package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/slashkit/pkg/cmd"

	"golang.org/x/time/rate"
)

// WithCooldown allows each user one run of the command per every. A zero or
// negative every disables the check.
func WithCooldown(every time.Duration) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		if every <= 0 {
			return c
		}
		cd := newCooldown(every)
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if wait := cd.reserve(inv.UserID); wait > 0 {
				return inv.Reply(ctx, fmt.Sprintf("Slow down! Try `/%s` again in %s.", c.Name(), wait.Round(100*time.Millisecond)))
			}
			return c.Run(ctx, inv)
		})
	}
}

func newCooldown(every time.Duration) *cooldown {
	return &cooldown{every: every, users: map[string]*userLimiter{}, lastSweep: time.Now()}
}

type cooldown struct {
	every time.Duration

	mu        sync.Mutex
	users     map[string]*userLimiter
	lastSweep time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// reserve takes the user's token and returns 0, or returns how long until one
// is available without taking it.
func (cd *cooldown) reserve(userID string) time.Duration {
	now := time.Now()

	cd.mu.Lock()
	cd.sweep(now)
	u, ok := cd.users[userID]
	if !ok {
		u = &userLimiter{lim: rate.NewLimiter(rate.Every(cd.every), 1)}
		cd.users[userID] = u
	}
	u.lastSeen = now
	cd.mu.Unlock()

	r := u.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return delay
	}
	return 0
}

// sweep drops limiters idle for a full period: their bucket is full again, so
// a fresh limiter behaves the same. Runs at most once per period.
// Callers must hold cd.mu.
func (cd *cooldown) sweep(now time.Time) {
	if now.Sub(cd.lastSweep) < cd.every {
		return
	}
	cd.lastSweep = now
	for id, u := range cd.users {
		if now.Sub(u.lastSeen) >= cd.every {
			delete(cd.users, id)
		}
	}
}

// size returns the number of tracked users.
func (cd *cooldown) size() int {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return len(cd.users)
}
