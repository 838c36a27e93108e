package service

import "sync"

const lockShards = 64

// shardedLocker serialises work per key with a fixed pool of mutexes. Two
// keys may share a shard; that only costs some parallelism, never safety.
type shardedLocker struct {
	shards [lockShards]sync.Mutex
}

func (l *shardedLocker) lock(key uint64) func() {
	m := &l.shards[key%lockShards]
	m.Lock()
	return m.Unlock
}

// AttemptLocker provides the per-attempt mutual exclusion every
// read-modify-write on an attempt runs under, plus a separate lock space for
// (exam, user) pairs while an attempt is being created.
type AttemptLocker struct {
	attempts shardedLocker
	starts   shardedLocker
}

func NewAttemptLocker() *AttemptLocker {
	return &AttemptLocker{}
}

func (l *AttemptLocker) LockAttempt(attemptID uint) func() {
	return l.attempts.lock(uint64(attemptID))
}

func (l *AttemptLocker) LockStart(examID, userID uint) func() {
	return l.starts.lock(uint64(examID)*1_000_003 + uint64(userID))
}
