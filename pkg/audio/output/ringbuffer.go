// ABOUTME: Thread-safe circular buffer of float32 samples
// ABOUTME: Decouples the pump from callback-driven audio threads
package output

import "sync"

// RingBuffer provides thread-safe circular buffer for audio samples
type RingBuffer struct {
	buffer   []float32
	readPos  int
	writePos int
	size     int
	count    int // Number of samples currently in buffer
	mu       sync.Mutex
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	return &RingBuffer{
		buffer: make([]float32, capacity),
		size:   capacity,
	}
}

// Write adds samples to the ring buffer and returns how many fit
func (rb *RingBuffer) Write(samples []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for written < len(samples) && rb.count < rb.size {
		n := min(len(samples)-written, rb.size-rb.count, rb.size-rb.writePos)
		copy(rb.buffer[rb.writePos:rb.writePos+n], samples[written:written+n])
		rb.writePos = (rb.writePos + n) % rb.size
		rb.count += n
		written += n
	}
	return written
}

// Read retrieves samples from the ring buffer, zero-filling on underrun
func (rb *RingBuffer) Read(samples []float32) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for read < len(samples) && rb.count > 0 {
		n := min(len(samples)-read, rb.count, rb.size-rb.readPos)
		copy(samples[read:read+n], rb.buffer[rb.readPos:rb.readPos+n])
		rb.readPos = (rb.readPos + n) % rb.size
		rb.count -= n
		read += n
	}

	// Zero-fill remaining if underrun
	clear(samples[read:])

	return read
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Free returns the number of free slots in the buffer
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size - rb.count
}

// Reset discards buffered samples
func (rb *RingBuffer) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.readPos, rb.writePos, rb.count = 0, 0, 0
}
