package hub

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/OhASys/sstracker-backend/domain"
)

type saveJob struct {
	userID string
	state  domain.UserState
}

// Saver persists board snapshots off the dispatch path. A single worker
// drains the buffer so saves for one user apply in enqueue order. Handoff
// never blocks dispatch: a full buffer drops the snapshot, which is safe
// because the board stays in memory and the next mutation re-enqueues it.
type Saver struct {
	store   Store
	log     *log.Logger
	jobs    chan saveJob
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewSaver starts the save worker. buf and timeout fall back to sane
// defaults when zero.
func NewSaver(store Store, logger *log.Logger, buf int, timeout time.Duration) *Saver {
	if store == nil {
		panic("hub.NewSaver: store is nil")
	}
	if logger == nil {
		panic("hub.NewSaver: logger is nil")
	}
	if buf <= 0 {
		buf = 1024
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &Saver{
		store:   store,
		log:     logger,
		jobs:    make(chan saveJob, buf),
		timeout: timeout,
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *Saver) run() {
	defer s.wg.Done()
	for j := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.store.Save(ctx, j.userID, j.state)
		cancel()
		if err != nil {
			s.log.Errorf("snapshot save failed, err: %v, user: %s", err, j.userID)
		}
	}
}

// Enqueue hands a snapshot to the worker. It reports false when the buffer
// is saturated and the snapshot was dropped.
func (s *Saver) Enqueue(userID string, st domain.UserState) bool {
	select {
	case s.jobs <- saveJob{userID: userID, state: st}:
		return true
	default:
		return false
	}
}

// Close drains outstanding saves and stops the worker.
func (s *Saver) Close() {
	close(s.jobs)
	s.wg.Wait()
}
