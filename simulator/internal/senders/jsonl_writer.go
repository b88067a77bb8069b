package senders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONLWriter отвечает за запись записей в JSONL формат
type JSONLWriter struct {
	writer    *bufio.Writer
	file      *os.File
	mu        sync.Mutex
	filePath  string
	autoFlush bool
	stats     WriteStats
}

// WriteStats содержит статистику записи
type WriteStats struct {
	TotalLines    int64     `json:"total_lines"`
	TotalBytes    int64     `json:"total_bytes"`
	LastWriteTime time.Time `json:"last_write_time"`
	ErrorsCount   int64     `json:"errors_count"`
}

// JSONLConfig конфигурация JSONL писателя
type JSONLConfig struct {
	FilePath   string
	AutoFlush  bool
	BufferSize int
	CreateDir  bool
	// Truncate перезаписывает файл вместо дописывания
	Truncate bool
	FilePerm os.FileMode
}

// NewJSONLWriter создает новый JSONL писатель
func NewJSONLWriter(config JSONLConfig) (*JSONLWriter, error) {
	if config.CreateDir {
		dir := filepath.Dir(config.FilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if config.Truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	if config.FilePerm == 0 {
		config.FilePerm = 0644
	}

	file, err := os.OpenFile(config.FilePath, flags, config.FilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	var writer *bufio.Writer
	if config.BufferSize > 0 {
		writer = bufio.NewWriterSize(file, config.BufferSize)
	} else {
		writer = bufio.NewWriter(file)
	}

	return &JSONLWriter{
		writer:    writer,
		file:      file,
		filePath:  config.FilePath,
		autoFlush: config.AutoFlush,
	}, nil
}

// WriteRecord записывает одну запись
func (j *JSONLWriter) WriteRecord(record Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	n, err := j.writeLocked(record)
	if err != nil {
		j.stats.ErrorsCount++
		return err
	}

	if err := j.maybeFlush(); err != nil {
		return err
	}

	j.recordWrite(1, n)
	return nil
}

// WriteBatch записывает несколько записей пачкой
func (j *JSONLWriter) WriteBatch(records []Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(records) == 0 {
		return nil
	}

	total := 0
	for i, record := range records {
		n, err := j.writeLocked(record)
		if err != nil {
			j.stats.ErrorsCount++
			j.recordWrite(int64(i), total)
			return fmt.Errorf("batch record %d: %w", i, err)
		}
		total += n
	}

	if err := j.maybeFlush(); err != nil {
		return err
	}

	j.recordWrite(int64(len(records)), total)
	return nil
}

func (j *JSONLWriter) writeLocked(record Record) (int, error) {
	if j.writer == nil {
		return 0, ErrWriterClosed
	}

	if err := record.Validate(); err != nil {
		return 0, fmt.Errorf("record validation failed: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("JSON marshaling failed: %w", err)
	}

	if _, err := j.writer.Write(data); err != nil {
		return 0, fmt.Errorf("write failed: %w", err)
	}
	if err := j.writer.WriteByte('\n'); err != nil {
		return 0, fmt.Errorf("newline write failed: %w", err)
	}

	return len(data) + 1, nil
}

func (j *JSONLWriter) maybeFlush() error {
	if !j.autoFlush {
		return nil
	}
	if err := j.writer.Flush(); err != nil {
		j.stats.ErrorsCount++
		return fmt.Errorf("flush failed: %w", err)
	}
	return nil
}

// Flush принудительно сбрасывает буфер в файл
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.writer == nil {
		return ErrWriterClosed
	}
	return j.writer.Flush()
}

// Close закрывает файл и освобождает ресурсы
func (j *JSONLWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.writer != nil {
		if err := j.writer.Flush(); err != nil {
			return fmt.Errorf("final flush failed: %w", err)
		}
	}

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			return fmt.Errorf("file close failed: %w", err)
		}
	}

	j.writer = nil
	j.file = nil

	return nil
}

// GetStats возвращает текущую статистику записи
func (j *JSONLWriter) GetStats() WriteStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}

// FilePath путь к текущему файлу
func (j *JSONLWriter) FilePath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.filePath
}

func (j *JSONLWriter) recordWrite(lines int64, bytes int) {
	if lines == 0 {
		return
	}
	j.stats.TotalLines += lines
	j.stats.TotalBytes += int64(bytes)
	j.stats.LastWriteTime = time.Now()
}
