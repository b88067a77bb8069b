package senders

import (
	"errors"
	"fmt"
	"math"

	"github.com/Krimson/reelspin/internal/spin"
)

// Ошибки отправителей
var (
	ErrWriterClosed = errors.New("writer is closed")
	ErrInvalidData  = errors.New("invalid record")
)

// RecordKind тип строки в выходном файле
type RecordKind string

const (
	KindFrame        RecordKind = "frame"
	KindSpinStarted  RecordKind = "spin_started"
	KindSpinFinished RecordKind = "spin_finished"
)

// Record одна строка JSONL: кадр или событие вращения
type Record struct {
	Kind   RecordKind  `json:"type"`
	Index  int         `json:"index"`
	Time   float64     `json:"time"`
	Number *int        `json:"number,omitempty"`
	Frame  *spin.Frame `json:"frame,omitempty"`
}

// Validate проверяет согласованность записи
func (r Record) Validate() error {
	if r.Index < 0 || r.Time < 0 || math.IsNaN(r.Time) || math.IsInf(r.Time, 0) {
		return fmt.Errorf("%w: index %d time %v", ErrInvalidData, r.Index, r.Time)
	}

	switch r.Kind {
	case KindFrame:
		if r.Frame == nil {
			return fmt.Errorf("%w: frame record without frame", ErrInvalidData)
		}
	case KindSpinStarted, KindSpinFinished:
		if r.Number == nil || *r.Number < spin.MinNumber || *r.Number > spin.MaxNumber {
			return fmt.Errorf("%w: %s record needs a number in [0, 999]", ErrInvalidData, r.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidData, r.Kind)
	}
	return nil
}

// DataSender интерфейс для отправки записей симуляции
type DataSender interface {
	// Send отправляет одну запись
	Send(record Record) error

	// Close освобождает ресурсы
	Close() error
}

// BatchSender интерфейс для пакетной отправки
type BatchSender interface {
	DataSender

	// SendBatch отправляет несколько записей
	SendBatch(records []Record) error
}
