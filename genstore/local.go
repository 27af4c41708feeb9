package genstore

import (
	"context"
	"sync"
	"time"
)

var _ GenStore = (*LocalGenStore)(nil)

type stamp struct {
	gen    uint64
	bumped time.Time
}

// LocalGenStore holds generations in process memory.
//
// Every bump draws from a single store-wide sequence, so no generation is
// ever issued twice, across keys or across prunes. A key removed by Cleanup
// reads back as the floor: the sequence value at the most recent prune.
type LocalGenStore struct {
	mu    sync.RWMutex
	byKey map[string]stamp
	seq   uint64
	floor uint64

	done     chan struct{}
	stopOnce sync.Once
	sweeper  sync.WaitGroup
}

// NewLocalGenStore returns a store. When both durations are positive a
// background sweeper calls Cleanup(retention) every interval until Close.
func NewLocalGenStore(interval, retention time.Duration) *LocalGenStore {
	s := &LocalGenStore{byKey: make(map[string]stamp)}
	if interval <= 0 || retention <= 0 {
		return s
	}
	s.done = make(chan struct{})
	s.sweeper.Add(1)
	go s.sweep(interval, retention)
	return s
}

func (s *LocalGenStore) sweep(interval, retention time.Duration) {
	defer s.sweeper.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.Cleanup(retention)
		}
	}
}

func (s *LocalGenStore) Snapshot(_ context.Context, key string) (uint64, error) {
	s.mu.RLock()
	st, ok := s.byKey[key]
	floor := s.floor
	s.mu.RUnlock()
	if !ok {
		return floor, nil
	}
	return st.gen, nil
}

func (s *LocalGenStore) Bump(_ context.Context, key string) (uint64, error) {
	at := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.byKey[key] = stamp{gen: s.seq, bumped: at}
	return s.seq, nil
}

func (s *LocalGenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}

// Cleanup drops keys whose last bump is older than retention.
func (s *LocalGenStore) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.byKey)
	for key, st := range s.byKey {
		if st.bumped.Before(cutoff) {
			delete(s.byKey, key)
		}
	}
	if len(s.byKey) < n {
		s.floor = s.seq
	}
}

// Close stops the sweeper, if any. Safe to call more than once.
func (s *LocalGenStore) Close(_ context.Context) error {
	if s.done == nil {
		return nil
	}
	s.stopOnce.Do(func() { close(s.done) })
	s.sweeper.Wait()
	return nil
}
