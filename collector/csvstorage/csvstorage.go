package csvstorage

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/Nrich-sunny/merchantpoint/collector"
	"go.uber.org/zap"
)

var ErrNoOutput = errors.New("csvstorage: no file or writer configured")

type CSVStore struct {
	options

	mu            sync.Mutex
	dataDocker    []collector.MerchantRecord // 分批输出结果缓存
	w             *csv.Writer
	closer        io.Closer
	headerWritten bool
}

func New(opts ...Option) (*CSVStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.batchCount < 1 {
		options.batchCount = 1
	}

	s := &CSVStore{options: options}
	switch {
	case s.writer != nil:
		s.w = csv.NewWriter(s.writer)
	case s.filename != "":
		f, err := os.Create(s.filename)
		if err != nil {
			s.logger.Error("create output file failed", zap.String("file", s.filename), zap.Error(err))
			return nil, err
		}
		s.w = csv.NewWriter(f)
		s.closer = f
	default:
		return nil, ErrNoOutput
	}
	return s, nil
}

func (s *CSVStore) Save(records ...collector.MerchantRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if len(s.dataDocker) >= s.batchCount {
			if err := s.flush(); err != nil {
				return err
			}
		}
		s.dataDocker = append(s.dataDocker, r)
	}
	return nil
}

func (s *CSVStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *CSVStore) flush() error {
	if !s.headerWritten {
		if err := s.w.Write(collector.Columns); err != nil {
			return err
		}
		s.headerWritten = true
	}
	for _, r := range s.dataDocker {
		if err := s.w.Write(r.Values()); err != nil {
			return err
		}
	}
	s.logger.Debug("flushed records", zap.Int("count", len(s.dataDocker)))
	s.dataDocker = nil
	s.w.Flush()
	return s.w.Error()
}

// Close flushes buffered records and closes the file opened by WithFile.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}
