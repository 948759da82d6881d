package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/carlosrabelo/storecheck/domain/entities"
	"github.com/carlosrabelo/storecheck/domain/ports"
	"github.com/carlosrabelo/storecheck/domain/services"
)

// CheckPlanner yields the ordered checks of one device run
type CheckPlanner interface {
	Plan() []services.Check
}

// ValidationApplicationService runs a check plan against one device and streams the
// outcomes into a report sink
type ValidationApplicationService struct {
	store      string
	deviceID   string
	reportPath string
	planner    CheckPlanner
	sink       ports.ReportSink
	sequence   *Sequence
	prober     ports.Prober
	notifier   ports.Notifier
}

// Option configures a ValidationApplicationService
type Option func(*ValidationApplicationService)

// WithProber checks device reachability before any command is sent
func WithProber(p ports.Prober) Option {
	return func(s *ValidationApplicationService) { s.prober = p }
}

// WithNotifier publishes the run summary once the run ends
func WithNotifier(n ports.Notifier) Option {
	return func(s *ValidationApplicationService) { s.notifier = n }
}

// WithReportPath records where the sink writes, for the summary only
func WithReportPath(path string) Option {
	return func(s *ValidationApplicationService) { s.reportPath = path }
}

// NewValidationApplicationService creates the orchestration service for one device.
// A nil sequence starts numbering at 1.
func NewValidationApplicationService(store, deviceID string, planner CheckPlanner, sink ports.ReportSink, sequence *Sequence, opts ...Option) *ValidationApplicationService {
	if sequence == nil {
		sequence = &Sequence{}
	}
	s := &ValidationApplicationService{
		store:    store,
		deviceID: deviceID,
		planner:  planner,
		sink:     sink,
		sequence: sequence,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes every check in plan order. A check error aborts the run; rows already
// appended stay in the report.
func (s *ValidationApplicationService) Run(ctx context.Context) (entities.RunSummary, error) {
	summary := entities.RunSummary{
		Store:      s.store,
		DeviceID:   s.deviceID,
		ReportPath: s.reportPath,
		StartedAt:  time.Now(),
	}

	err := s.run(ctx, &summary)
	summary.Duration = time.Since(summary.StartedAt)
	summary.Err = err
	if err != nil {
		log.Errorf("%s: run aborted after %d checks: %v", s.deviceID, summary.Total(), err)
	} else {
		log.Infof("%s: %d passed, %d failed", s.deviceID, summary.Passed, summary.Failed)
	}

	if s.notifier != nil {
		if nerr := s.notifier.Notify(ctx, summary); nerr != nil {
			log.Warningf("%s: failed to publish run summary: %v", s.deviceID, nerr)
		}
	}
	return summary, err
}

func (s *ValidationApplicationService) run(ctx context.Context, summary *entities.RunSummary) error {
	if s.prober != nil {
		reachable, err := s.prober.Reachable(ctx, s.deviceID)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", entities.ErrUnreachable, s.deviceID, err)
		}
		if !reachable {
			return fmt.Errorf("%w: %s", entities.ErrUnreachable, s.deviceID)
		}
	}

	for _, check := range s.planner.Plan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Infof("Test-%d : %s - %s", s.sequence.Next(), check.Title, s.deviceID)

		outcome, err := check.Run()
		if err != nil {
			return fmt.Errorf("%s: %w", check.Title, err)
		}
		if err := s.sink.AppendRow(entities.NewReportRow(s.deviceID, outcome)); err != nil {
			return fmt.Errorf("failed to append report row: %w", err)
		}
		if err := s.sink.Flush(); err != nil {
			return fmt.Errorf("failed to flush report: %w", err)
		}

		if outcome.Passed() {
			summary.Passed++
		} else {
			summary.Failed++
			log.V(1).Infof("%s: %s FAILED (%s)", s.deviceID, outcome.Name, outcome.Response)
		}
	}
	return nil
}
