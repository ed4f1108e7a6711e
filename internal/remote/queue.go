package remote

// DefaultQueueCapacity is the number of codes buffered before Push drops.
const DefaultQueueCapacity = 8

// Queue is a non-blocking remote receiver.
//
// Push may be called from any goroutine. TryDecode and Resume belong to the
// controller goroutine.
type Queue struct {
	codes chan uint32

	pending bool
	code    uint32
}

// NewQueue creates a queue buffering up to capacity codes.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}

	return &Queue{
		codes: make(chan uint32, capacity),
	}
}

// Push enqueues a decoded code. It returns false when the buffer is full.
func (q *Queue) Push(code uint32) bool {
	select {
	case q.codes <- code:
		return true
	default:
		return false
	}
}

// TryDecode returns the pending code, taking the next one from the buffer
// when nothing is pending.
func (q *Queue) TryDecode() (uint32, bool) {
	if q.pending {
		return q.code, true
	}

	select {
	case code := <-q.codes:
		q.pending = true
		q.code = code

		return code, true
	default:
		return 0, false
	}
}

// Resume releases the pending code so the next one can be decoded.
func (q *Queue) Resume() {
	q.pending = false
	q.code = 0
}
