package buffer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks buffer operation counters.
// Counters are atomic so a metrics scrape on another goroutine reads whole values;
// the buffer itself still has a single owner.
type Statistics struct {
	pushes    int64
	pops      int64
	peeks     int64
	overflows int64
	evictions int64
	discarded int64

	// Protected by mutex
	mu          sync.RWMutex
	startTime   time.Time
	currentSize int64
	maxSize     int64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Push records a successful push.
func (s *Statistics) Push() {
	atomic.AddInt64(&s.pushes, 1)
}

// Pop records a removed item.
func (s *Statistics) Pop() {
	atomic.AddInt64(&s.pops, 1)
}

// Peek records a front access.
func (s *Statistics) Peek() {
	atomic.AddInt64(&s.peeks, 1)
}

// Overflow records a push attempted on a full buffer, under either policy.
func (s *Statistics) Overflow() {
	atomic.AddInt64(&s.overflows, 1)
}

// Evict records an item removed by the EvictOldest policy.
func (s *Statistics) Evict() {
	atomic.AddInt64(&s.evictions, 1)
}

// Discard records n items dropped by Clear.
func (s *Statistics) Discard(n int64) {
	atomic.AddInt64(&s.discarded, n)
}

// UpdateSize updates the current buffer size.
func (s *Statistics) UpdateSize(size int64) {
	s.mu.Lock()
	s.currentSize = size
	if size > s.maxSize {
		s.maxSize = size
	}
	s.mu.Unlock()
}

// Pushes returns the total number of successful pushes.
func (s *Statistics) Pushes() int64 {
	return atomic.LoadInt64(&s.pushes)
}

// Pops returns the total number of popped items.
func (s *Statistics) Pops() int64 {
	return atomic.LoadInt64(&s.pops)
}

// Peeks returns the total number of front accesses.
func (s *Statistics) Peeks() int64 {
	return atomic.LoadInt64(&s.peeks)
}

// Overflows returns the number of pushes that found the buffer full.
func (s *Statistics) Overflows() int64 {
	return atomic.LoadInt64(&s.overflows)
}

// Evictions returns the number of items removed by the EvictOldest policy.
func (s *Statistics) Evictions() int64 {
	return atomic.LoadInt64(&s.evictions)
}

// Rejections returns the number of pushes refused with ErrOverflow.
func (s *Statistics) Rejections() int64 {
	return s.Overflows() - s.Evictions()
}

// Discarded returns the number of items dropped by Clear.
func (s *Statistics) Discarded() int64 {
	return atomic.LoadInt64(&s.discarded)
}

// CurrentSize returns the current number of items in the buffer.
func (s *Statistics) CurrentSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSize
}

// MaxSize returns the maximum number of items the buffer has held.
func (s *Statistics) MaxSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxSize
}

// EvictionRate returns the share of successful pushes that evicted an item (0.0 to 1.0).
func (s *Statistics) EvictionRate() float64 {
	pushes := s.Pushes()
	if pushes == 0 {
		return 0.0
	}
	return float64(s.Evictions()) / float64(pushes)
}

// OverflowRate returns the share of push attempts that found the buffer full (0.0 to 1.0).
func (s *Statistics) OverflowRate() float64 {
	attempts := s.Pushes() + s.Rejections()
	if attempts == 0 {
		return 0.0
	}
	return float64(s.Overflows()) / float64(attempts)
}

// Utilization returns the current buffer utilization as a fraction (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.CurrentSize()) / float64(capacity)
}

// Uptime returns how long the statistics have been collected.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all counters to zero. The current size is kept.
func (s *Statistics) Reset() {
	atomic.StoreInt64(&s.pushes, 0)
	atomic.StoreInt64(&s.pops, 0)
	atomic.StoreInt64(&s.peeks, 0)
	atomic.StoreInt64(&s.overflows, 0)
	atomic.StoreInt64(&s.evictions, 0)
	atomic.StoreInt64(&s.discarded, 0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.maxSize = s.currentSize
	s.mu.Unlock()
}

// StatsSummary is a point-in-time snapshot of Statistics.
type StatsSummary struct {
	Pushes       int64         `json:"pushes"`
	Pops         int64         `json:"pops"`
	Peeks        int64         `json:"peeks"`
	Overflows    int64         `json:"overflows"`
	Evictions    int64         `json:"evictions"`
	Rejections   int64         `json:"rejections"`
	Discarded    int64         `json:"discarded"`
	CurrentSize  int64         `json:"current_size"`
	MaxSize      int64         `json:"max_size"`
	EvictionRate float64       `json:"eviction_rate"`
	OverflowRate float64       `json:"overflow_rate"`
	Uptime       time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Pushes:       s.Pushes(),
		Pops:         s.Pops(),
		Peeks:        s.Peeks(),
		Overflows:    s.Overflows(),
		Evictions:    s.Evictions(),
		Rejections:   s.Rejections(),
		Discarded:    s.Discarded(),
		CurrentSize:  s.CurrentSize(),
		MaxSize:      s.MaxSize(),
		EvictionRate: s.EvictionRate(),
		OverflowRate: s.OverflowRate(),
		Uptime:       s.Uptime(),
	}
}
