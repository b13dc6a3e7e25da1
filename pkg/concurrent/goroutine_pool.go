package concurrent

import (
	"errors"
	"time"
)

// ErrScheduleTimeout returned by Pool when no free goroutine picked up the
// task within the given timeout.
var ErrScheduleTimeout = errors.New("schedule error: timed out")

// Pool bounded goroutine pool for connection handling: at most spawned
// goroutines serve tasks, Schedule blocks (or times out) when all of them
// are busy. this keeps one slow websocket client from unbounding goroutine
// growth.
type Pool struct {
	sem  chan struct{}
	work chan func()
}

func NewPool(size, queue int) *Pool {
	return &Pool{
		sem:  make(chan struct{}, size),
		work: make(chan func(), queue),
	}
}

func (p *Pool) Spawn(n int) {
	for i := 0; i < n; i++ {
		p.sem <- struct{}{}
		go p.worker(func() {})
	}
}

// Schedule schedules task to be executed over pool's workers.
func (p *Pool) Schedule(task func()) error {
	return p.schedule(task, nil)
}

// ScheduleTimeout schedules task to be executed over pool's workers.
// it returns ErrScheduleTimeout when no worker is free within timeout.
func (p *Pool) ScheduleTimeout(timeout time.Duration, task func()) error {
	return p.schedule(task, time.After(timeout))
}

func (p *Pool) schedule(task func(), timeout <-chan time.Time) error {
	select {
	case <-timeout:
		return ErrScheduleTimeout
	case p.work <- task:
		return nil
	case p.sem <- struct{}{}:
		go p.worker(task)
		return nil
	}
}

func (p *Pool) worker(task func()) {
	defer func() { <-p.sem }()

	task()

	for task := range p.work {
		task()
	}
}
