package command

// Queue buffers commands submitted by operators (transferctl) between
// scheduler ticks. The scheduler drains it fully, once, ahead of state
// dispatch on each tick — commands never interleave with a single handler
// invocation.
type Queue struct {
	ch chan Command
}

// NewQueue creates a Queue with the given buffer capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan Command, capacity)}
}

// Enqueue submits cmd without blocking the caller beyond queue capacity.
func (q *Queue) Enqueue(cmd Command) {
	q.ch <- cmd
}

// TryEnqueue submits cmd without blocking; reports false if the queue is full.
func (q *Queue) TryEnqueue(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// Drain removes and returns every command currently queued, without
// blocking for more to arrive.
func (q *Queue) Drain() []Command {
	var cmds []Command
	for {
		select {
		case cmd := <-q.ch:
			cmds = append(cmds, cmd)
		default:
			return cmds
		}
	}
}
