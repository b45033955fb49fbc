package statistics

import (
	"errors"
	"log/slog"
)

// DefaultRejectionLogSize is how many rejected rows a Report keeps by default.
const DefaultRejectionLogSize = 100

const (
	KindMalformedRow = "malformed_row"
	KindParseError   = "parse_error"
)

type Rejection struct {
	Row    int    `json:"row"`
	Raw    string `json:"raw"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Report accumulates rejected rows. It never fails.
type Report struct {
	Accepted      int `json:"accepted"`
	Rejected      int `json:"rejected"`
	MalformedRows int `json:"malformedRows"`
	ParseErrors   int `json:"parseErrors"`
	// Anomalies counts rows whose weekday label does not match their date.
	Anomalies int `json:"anomalies"`
	// Rejections holds the first rejected rows, up to the log size.
	Rejections []Rejection `json:"rejections,omitempty"`

	logger  *slog.Logger
	logSize int
}

func newReport(logger *slog.Logger, logSize int) *Report {
	return &Report{
		logger:  logger,
		logSize: logSize,
	}
}

func (r *Report) accept() {
	r.Accepted++
}

func (r *Report) reject(row int, raw string, err error) {
	r.Rejected++
	kind := KindMalformedRow
	if errors.Is(err, ErrParse) {
		kind = KindParseError
		r.ParseErrors++
	} else {
		r.MalformedRows++
	}
	r.logger.Warn("invalid row", "row", row, "raw", raw, "error", err)
	if len(r.Rejections) < r.logSize {
		r.Rejections = append(r.Rejections, Rejection{
			Row:    row,
			Raw:    raw,
			Kind:   kind,
			Reason: err.Error(),
		})
	}
}

// Total is the number of data rows seen.
func (r Report) Total() int {
	return r.Accepted + r.Rejected
}

func (r Report) RejectionRate() float64 {
	if r.Total() == 0 {
		return 0
	}
	return float64(r.Rejected) / float64(r.Total())
}

// HighRejectionRate reports whether the share of rejected rows exceeds threshold,
// which usually means the file is not an attendance export.
func (r Report) HighRejectionRate(threshold float64) bool {
	return r.RejectionRate() > threshold
}
