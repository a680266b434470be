// Package workerpool runs tasks on a fixed number of goroutines and lets the
// caller block until every submitted task has finished.
package workerpool

import (
	"log"
	"runtime"
	"sync"
)

// Task is one unit of work. Tasks never submit further work.
type Task func()

// Pool is a bounded fan-out with a fan-in barrier.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
	once  sync.Once
	size  int
}

// DefaultSize returns the number of usable CPUs, never less than 1.
func DefaultSize() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

// New starts size workers. A size below 1 falls back to DefaultSize.
func New(size int) *Pool {
	if size < 1 {
		size = DefaultSize()
	}

	p := &Pool{
		tasks: make(chan Task, size),
		size:  size,
	}

	p.wg.Add(size)
	for range size {
		go p.worker()
	}

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		p.run(task)
	}
}

// run keeps a panicking task from taking down its worker and the tasks queued behind it
func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: task panicked: %v", r)
		}
	}()
	task()
}

// Submit queues a task, blocking while all workers are busy and the queue is full.
// Submit must not be called after Wait.
func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Wait closes the queue and blocks until every submitted task has returned.
// It is safe to call Wait more than once.
func (p *Pool) Wait() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
