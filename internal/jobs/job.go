// Package jobs holds the scheduled maintenance jobs. Every job calls the CRM
// API and appends its outcome to a plain-text log file.
package jobs

import (
	"context"
	"fmt"
	"time"

	"crm/internal/client"
	"crm/internal/domain"
	"crm/internal/service"

	"go.uber.org/zap"
)

// API is the part of the CRM API the jobs depend on. *client.Client implements it.
type API interface {
	Hello(ctx context.Context) (string, error)
	UpdateLowStockProducts(ctx context.Context) (*service.RestockResult, error)
	ListOrders(ctx context.Context, q client.OrderQuery) ([]*domain.Order, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
}

var _ API = (*client.Client)(nil)

// Report is the outcome of one job invocation
type Report struct {
	Job     string
	Success bool
	Summary string
}

// Job is a named unit of scheduled work. Run never panics and reports failure
// through the returned Report.
type Job interface {
	Name() string
	Run(ctx context.Context) Report
}

// Option configures a job
type Option func(*base)

// WithClock overrides the time source used for log timestamps
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// WithLogger sets the logger used for job failures
func WithLogger(logger *zap.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type base struct {
	name    string
	api     API
	logPath string
	logger  *zap.Logger
	now     func() time.Time
}

func newBase(name string, api API, logPath string, opts []Option) base {
	b := base{
		name:    name,
		api:     api,
		logPath: logPath,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	b.logger = b.logger.With(zap.String("job", name))
	return b
}

func (b *base) Name() string { return b.name }

// guard turns a panic in a job body into a failed report. line renders the
// error record written to the job's log.
func (b *base) guard(report *Report, line func(msg string) string) {
	p := recover()
	if p == nil {
		return
	}

	msg := fmt.Sprintf("Unexpected error: %v", p)
	b.logger.Error("Job panicked", zap.Any("panic", p), zap.Stack("stack"))
	if err := appendLog(b.logPath, line(truncate(msg, maxErrorLen))); err != nil {
		b.logger.Error("Failed to write job log", zap.String("path", b.logPath), zap.Error(err))
	}
	*report = Report{Job: b.name, Summary: msg}
}

// write appends text to the job log, logging rather than returning a failure
func (b *base) write(text string) bool {
	if err := appendLog(b.logPath, text); err != nil {
		b.logger.Error("Failed to write job log", zap.String("path", b.logPath), zap.Error(err))
		return false
	}
	return true
}
