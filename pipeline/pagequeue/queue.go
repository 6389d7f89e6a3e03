// Package pagequeue provides a fixed-capacity FIFO queue connecting one
// producer to any number of consumers.
//
// Push blocks while the queue is full. Pop blocks while the queue is empty and
// the producer hasn't finished. Once the producer calls MarkProducerDone and
// the queue drains, every Pop returns immediately with ok == false.
package pagequeue

import (
	"fmt"
	"sync"

	"github.com/dargueta/pzip"
)

// PopStatus is the outcome of [Queue.TryPopOrFinish].
type PopStatus int

const (
	// Popped means an item was removed from the queue.
	Popped PopStatus = iota
	// Empty means the queue is empty but the producer may still push more.
	Empty
	// Finished means the queue is empty and the producer is done.
	Finished
)

func (status PopStatus) String() string {
	switch status {
	case Popped:
		return "popped"
	case Empty:
		return "empty"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("PopStatus(%d)", int(status))
	}
}

// Queue is a bounded circular buffer. The zero value is not usable; create one
// with [New].
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    []T
	front    int
	back     int
	size     int
	done     bool
}

// New creates an empty queue that holds at most `capacity` items.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("queue capacity must be at least 1, got %d", capacity),
		)
	}

	queue := &Queue[T]{items: make([]T, capacity)}
	queue.notFull = sync.NewCond(&queue.mu)
	queue.notEmpty = sync.NewCond(&queue.mu)
	return queue, nil
}

// Cap returns the maximum number of items the queue can hold.
func (queue *Queue[T]) Cap() int {
	return len(queue.items)
}

// Len returns the number of items currently in the queue.
func (queue *Queue[T]) Len() int {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return queue.size
}

// Done reports whether the producer has finished. Items may still be waiting
// in the queue.
func (queue *Queue[T]) Done() bool {
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return queue.done
}

// Push adds an item to the back of the queue, waiting for a free slot if the
// queue is full. Pushing after [Queue.MarkProducerDone] is an error.
func (queue *Queue[T]) Push(item T) error {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	for queue.size == len(queue.items) && !queue.done {
		queue.notFull.Wait()
	}
	if queue.done {
		return pzip.ErrQueueInvariant.WithMessage("push after producer finished")
	}

	queue.items[queue.back] = item
	queue.back = (queue.back + 1) % len(queue.items)
	queue.size++
	queue.checkSize()

	queue.notEmpty.Signal()
	return nil
}

// Pop removes the item at the front of the queue, waiting for one to arrive if
// necessary. It returns ok == false once the queue is empty and the producer
// is done.
func (queue *Queue[T]) Pop() (item T, ok bool) {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	for queue.size == 0 && !queue.done {
		queue.notEmpty.Wait()
	}
	if queue.size == 0 {
		return item, false
	}
	return queue.dequeue(), true
}

// TryPopOrFinish is the non-blocking form of [Queue.Pop].
func (queue *Queue[T]) TryPopOrFinish() (item T, status PopStatus) {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	if queue.size == 0 {
		if queue.done {
			return item, Finished
		}
		return item, Empty
	}
	return queue.dequeue(), Popped
}

// MarkProducerDone records that no more items will be pushed and wakes every
// waiting consumer. Calling it more than once has no further effect.
func (queue *Queue[T]) MarkProducerDone() {
	queue.mu.Lock()
	defer queue.mu.Unlock()

	queue.done = true
	queue.notEmpty.Broadcast()
	// A producer blocked on a full queue must not wait forever either.
	queue.notFull.Broadcast()
}

// dequeue must be called with the lock held and the queue non-empty.
func (queue *Queue[T]) dequeue() T {
	var zero T
	item := queue.items[queue.front]
	queue.items[queue.front] = zero
	queue.front = (queue.front + 1) % len(queue.items)
	queue.size--
	queue.checkSize()

	queue.notFull.Signal()
	return item
}

func (queue *Queue[T]) checkSize() {
	if queue.size < 0 || queue.size > len(queue.items) {
		panic(pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf("queue size %d not in [0, %d]", queue.size, len(queue.items)),
		))
	}
}
