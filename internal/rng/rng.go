package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source источник равномерно распределённых чисел в [0, 1)
type Source interface {
	Float64() float64
}

// Rand потокобезопасная обёртка над math/rand
type Rand struct {
	mu   sync.Mutex
	rand *rand.Rand
}

// New создаёт источник с заданным seed; seed == 0 означает seed от текущего времени
func New(seed int64) *Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Rand{rand: rand.New(rand.NewSource(seed))}
}

func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Sequence возвращает значения по кругу, используется для детерминированных прогонов
type Sequence struct {
	values []float64
	next   int
	calls  int
}

// NewSequence создаёт источник с фиксированной последовательностью значений
func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	s.calls++
	return v
}

// Calls количество выданных значений
func (s *Sequence) Calls() int {
	return s.calls
}
