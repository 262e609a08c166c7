// Package syncx has small helpers that scope a critical section to a function, so a lock can't be left held by an early return.
package syncx

import "sync"

func LockFunc(mux sync.Locker, fn func()) {
	mux.Lock()
	defer mux.Unlock()
	fn()
}

func LockFuncT[T any](mux sync.Locker, fn func() T) T {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}

func LockFuncErr(mux sync.Locker, fn func() error) error {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}

type RLocker interface {
	RLock()
	RUnlock()
}

func RLockFunc(mux RLocker, fn func()) {
	mux.RLock()
	defer mux.RUnlock()
	fn()
}

func RLockFuncT[T any](mux RLocker, fn func() T) T {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}

// RLockFuncT2 is like [RLockFuncT] for functions returning two values, which is common for map lookups.
func RLockFuncT2[T any, U any](mux RLocker, fn func() (T, U)) (T, U) {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}
