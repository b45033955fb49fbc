package statistics

import (
	"fmt"
	"log/slog"

	"github.com/attendancestats/internal/sites"
)

type Result struct {
	Statistics Statistics `json:"statistics"`
	Report     Report     `json:"report"`
}

// Processor turns attendance exports into statistics. Every call to Process
// starts from scratch, so a Processor can be shared.
type Processor struct {
	logger           *slog.Logger
	rules            sites.Rules
	rejectionLogSize int
}

func NewProcessor(logger *slog.Logger, rules sites.Rules, rejectionLogSize int) *Processor {
	return &Processor{
		logger:           logger,
		rules:            rules,
		rejectionLogSize: rejectionLogSize,
	}
}

// Process aggregates an attendance export in a single pass. Invalid rows are
// counted in the report and skipped. When no row is valid the returned error
// wraps ErrEmptyInput and the result still carries the report.
func (p *Processor) Process(content string) (*Result, error) {
	report := newReport(p.logger, p.rejectionLogSize)
	aggregator := NewAggregator(p.logger, p.rules)

	if err := ReadRecords(content, func(raw RawRecord) {
		if raw.Err != nil {
			report.reject(raw.Index, raw.Raw(), raw.Err)
			return
		}
		event, err := ParseRow(raw.Record)
		if err != nil {
			report.reject(raw.Index, raw.Raw(), err)
			return
		}
		aggregator.Add(event)
		report.accept()
	}); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	report.Anomalies = aggregator.Anomalies()
	result := &Result{
		Statistics: aggregator.Statistics(),
		Report:     *report,
	}
	if report.Accepted == 0 {
		return result, fmt.Errorf("%w: %d rows rejected", ErrEmptyInput, report.Rejected)
	}
	return result, nil
}

// Process aggregates content with the default logger and rejection log size.
func Process(content string, rules sites.Rules) (*Result, error) {
	return NewProcessor(slog.Default(), rules, DefaultRejectionLogSize).Process(content)
}
