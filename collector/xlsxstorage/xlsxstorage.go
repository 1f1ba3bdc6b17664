package xlsxstorage

import (
	"sync"

	"github.com/Nrich-sunny/merchantpoint/collector"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const DefaultSheet = "Merchants"

type XLSXStore struct {
	mu       sync.Mutex
	f        *excelize.File
	sheet    string
	row      int
	filename string
	logger   *zap.Logger
}

// New creates a workbook that is written to filename on Close.
func New(filename string, logger *zap.Logger) (*XLSXStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DefaultSheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	s := &XLSXStore{
		f:        f,
		sheet:    DefaultSheet,
		filename: filename,
		logger:   logger,
	}
	if err := s.writeRow(collector.Columns); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *XLSXStore) writeRow(values []string) error {
	s.row++
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.row)
		if err != nil {
			return err
		}
		if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *XLSXStore) Save(records ...collector.MerchantRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if err := s.writeRow(r.Values()); err != nil {
			return err
		}
	}
	return nil
}

// Rows returns the number of data rows written so far.
func (s *XLSXStore) Rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row - 1
}

func (s *XLSXStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}
	err := s.f.SaveAs(s.filename)
	if err != nil {
		s.logger.Error("save workbook failed", zap.String("file", s.filename), zap.Error(err))
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f = nil
	return err
}
