package entities

import "time"

// ReportRow is one line of the test report
type ReportRow struct {
	DeviceID  string
	CheckName string
	Response  string
	Status    Status
	Style     StyleHints
}

// NewReportRow flattens a check outcome for the given device
func NewReportRow(deviceID string, outcome CheckOutcome) ReportRow {
	return ReportRow{
		DeviceID:  deviceID,
		CheckName: outcome.Name,
		Response:  outcome.Response,
		Status:    outcome.Status,
		Style:     outcome.Style,
	}
}

// RunSummary describes a finished (or aborted) device run
type RunSummary struct {
	Store      string
	DeviceID   string
	ReportPath string
	Passed     int
	Failed     int
	StartedAt  time.Time
	Duration   time.Duration
	Err        error
}

// Total returns the number of checks that produced a row
func (s RunSummary) Total() int {
	return s.Passed + s.Failed
}
