package ports

import "github.com/carlosrabelo/storecheck/domain/entities"

// ReportSink persists report rows in the order they are appended
type ReportSink interface {
	AppendRow(row entities.ReportRow) error
	Flush() error
	Close() error
}
