package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/golang/glog"
	"github.com/xuri/excelize/v2"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

// SheetName is the single worksheet of a store report
const SheetName = "Sheet"

// Header is the first row of every report
var Header = []string{"DEVICE", "TEST", "DEVICE RESPONSE", "RESULT"}

// XLSXSink writes report rows to a spreadsheet. Every Flush saves the whole workbook,
// so an interrupted run leaves the rows written so far on disk.
type XLSXSink struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	next   int
	styles map[entities.StyleHints]int
}

// NewXLSXSink creates the workbook at path and writes the bold header row
func NewXLSXSink(path string) (*XLSXSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}

	s := &XLSXSink{
		path:   path,
		file:   f,
		next:   1,
		styles: map[entities.StyleHints]int{},
	}
	header := make([]any, len(Header))
	for i, title := range Header {
		header[i] = title
	}
	if err := s.writeRow(header, entities.StyleHints{Bold: true, FontColor: entities.ColorBlack}); err != nil {
		f.Close()
		return nil, err
	}
	if err := s.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the report file location
func (s *XLSXSink) Path() string {
	return s.path
}

// AppendRow adds one row below the previous one
func (s *XLSXSink) AppendRow(row entities.ReportRow) error {
	return s.writeRow([]any{row.DeviceID, row.CheckName, row.Response, string(row.Status)}, row.Style)
}

func (s *XLSXSink) writeRow(values []any, hints entities.StyleHints) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	first, err := excelize.CoordinatesToCellName(1, s.next)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), s.next)
	if err != nil {
		return err
	}
	if err := s.file.SetSheetRow(SheetName, first, &values); err != nil {
		return fmt.Errorf("failed to write report row %d: %w", s.next, err)
	}
	style, err := s.style(hints)
	if err != nil {
		return err
	}
	if err := s.file.SetCellStyle(SheetName, first, last, style); err != nil {
		return fmt.Errorf("failed to style report row %d: %w", s.next, err)
	}
	s.next++
	return nil
}

func (s *XLSXSink) style(hints entities.StyleHints) (int, error) {
	if id, ok := s.styles[hints]; ok {
		return id, nil
	}
	id, err := s.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   hints.Bold,
			Italic: hints.Italic,
			Color:  fontColor(hints.FontColor),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create report style: %w", err)
	}
	s.styles[hints] = id
	return id, nil
}

// fontColor turns an ARGB hex value into the RGB form excelize expects
func fontColor(argb string) string {
	color := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(argb)), "#")
	if len(color) == 8 {
		color = color[2:]
	}
	if len(color) != 6 {
		return "000000"
	}
	return color
}

// Flush saves the workbook to disk
func (s *XLSXSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", s.path, err)
	}
	log.V(2).Infof("report %s saved with %d rows", s.path, s.next-1)
	return nil
}

// Close saves pending rows and releases the workbook
func (s *XLSXSink) Close() error {
	flushErr := s.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.file.Close(); err != nil && flushErr == nil {
		return err
	}
	return flushErr
}

// ReadRows loads the data rows of a saved report, header excluded
func ReadRows(path string) ([]entities.ReportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("report %s has no header", path)
	}

	out := make([]entities.ReportRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		for len(cells) < len(Header) {
			cells = append(cells, "")
		}
		out = append(out, entities.ReportRow{
			DeviceID:  cells[0],
			CheckName: cells[1],
			Response:  cells[2],
			Status:    entities.Status(cells[3]),
		})
	}
	return out, nil
}
