package storage

import (
	"sync"
)

// OperationType tells the LockManager whether an operation only reads
// documents or also mutates them.
type OperationType int

const (
	// ReadOperation may run concurrently with other reads
	ReadOperation OperationType = iota

	// WriteOperation is exclusive: no reads or writes run alongside it.
	// Index read-modify-write sequences must use it.
	WriteOperation
)

// LockManager serializes store operations within one process.
// One instance is shared by every collection of a DB, matching the single
// Index they share.
type LockManager struct {
	mu *sync.RWMutex
}

// NewLockManager creates a new lock manager instance
func NewLockManager() *LockManager {
	return &LockManager{
		mu: &sync.RWMutex{},
	}
}

// Execute runs fn holding the lock that matches opType.
// The lock is released when fn returns, including on panic.
//
// Example:
//
//	err := locks.Execute(WriteOperation, func() error {
//	    return index.Register(ctx, key)
//	})
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case ReadOperation:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	}
	return fn()
}
