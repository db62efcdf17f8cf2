package repos

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// pipelineLockKey is the advisory-lock key shared by run and clear. One key:
// a run and a clear must never interleave.
const pipelineLockKey int64 = 874002

// AdvisoryLock serialises runs and clears with a Postgres session advisory
// lock. Session locks are tied to one connection, so the lock pins a dedicated
// connection from the pool until Unlock.
type AdvisoryLock struct {
	db *sql.DB

	mu   sync.Mutex
	conn *sql.Conn
}

func NewAdvisoryLock(db *sql.DB) *AdvisoryLock {
	return &AdvisoryLock{db: db}
}

// TryLock attempts to take the pipeline lock without blocking. Returns false
// when another run or clear already holds it.
func (l *AdvisoryLock) TryLock(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn != nil {
		return false, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", pipelineLockKey).Scan(&acquired); err != nil {
		_ = conn.Close()
		return false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

// Unlock releases the advisory lock and returns the pinned connection to the
// pool.
func (l *AdvisoryLock) Unlock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}
	defer func() {
		_ = l.conn.Close()
		l.conn = nil
	}()

	if _, err := l.conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", pipelineLockKey); err != nil {
		return fmt.Errorf("advisory unlock: %w", err)
	}
	return nil
}
