package engine

import (
	"context"
	"time"
)

// Ticker отдаёт метки времени кадров с заданным интервалом
type Ticker struct {
	interval time.Duration
}

func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Tick возвращает канал кадров; канал закрывается при отмене контекста
func (t *Ticker) Tick(ctx context.Context) <-chan time.Time {
	tickChan := make(chan time.Time)

	go func() {
		defer close(tickChan)

		// Первый кадр сразу
		select {
		case tickChan <- time.Now():
		case <-ctx.Done():
			return
		}

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case tickTime := <-ticker.C:
				select {
				case tickChan <- tickTime:
				case <-ctx.Done():
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return tickChan
}

// FrameDelta время между кадрами в секундах, ограниченное сверху maxDelta
func FrameDelta(prev, now time.Time, maxDelta time.Duration) float64 {
	delta := now.Sub(prev)
	if delta < 0 {
		return 0
	}
	if delta > maxDelta {
		delta = maxDelta
	}
	return delta.Seconds()
}
