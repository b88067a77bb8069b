package senders

import (
	"fmt"
)

// FileSender пишет записи симуляции в JSONL файл
type FileSender struct {
	writer   *JSONLWriter
	filePath string
}

// NewFileSender создает файловый отправитель; существующий файл перезаписывается
func NewFileSender(filePath string) (*FileSender, error) {
	writer, err := NewJSONLWriter(JSONLConfig{
		FilePath:   filePath,
		BufferSize: 64 * 1024,
		CreateDir:  true,
		Truncate:   true,
		FilePerm:   0644,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JSONL writer: %w", err)
	}

	return &FileSender{
		writer:   writer,
		filePath: filePath,
	}, nil
}

// Send отправляет одну запись
func (fs *FileSender) Send(record Record) error {
	return fs.writer.WriteRecord(record)
}

// SendBatch отправляет несколько записей
func (fs *FileSender) SendBatch(records []Record) error {
	return fs.writer.WriteBatch(records)
}

// Close сбрасывает буфер и закрывает файл
func (fs *FileSender) Close() error {
	return fs.writer.Close()
}

// GetStats возвращает статистику записи
func (fs *FileSender) GetStats() WriteStats {
	return fs.writer.GetStats()
}

func (fs *FileSender) FilePath() string {
	return fs.filePath
}
