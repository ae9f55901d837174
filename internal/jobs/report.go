package jobs

import (
	"context"
	"errors"
	"fmt"

	"crm/internal/client"

	"go.uber.org/zap"
)

const ReportJob = "report"

// WeeklyReport summarizes customers, orders and revenue
type WeeklyReport struct {
	base
}

// NewWeeklyReport creates a WeeklyReport appending to logPath
func NewWeeklyReport(api API, logPath string, opts ...Option) *WeeklyReport {
	return &WeeklyReport{base: newBase(ReportJob, api, logPath, opts)}
}

func (j *WeeklyReport) Run(ctx context.Context) (report Report) {
	timestamp := j.now().Format(reportTimeLayout)
	defer j.guard(&report, func(msg string) string {
		return fmt.Sprintf("%s - ERROR: %s\n", timestamp, msg)
	})

	fail := func(err error) Report {
		j.logger.Error("Failed to generate CRM report", zap.Error(err))

		summary := truncate("Request error: "+err.Error(), maxErrorLen)
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			summary = fmt.Sprintf("API request failed with status %d", statusErr.StatusCode)
		}
		j.write(fmt.Sprintf("%s - ERROR: %s\n", timestamp, summary))
		return Report{Job: j.name, Summary: summary}
	}

	customers, err := j.api.ListCustomers(ctx)
	if err != nil {
		return fail(err)
	}
	orders, err := j.api.ListOrders(ctx, client.OrderQuery{})
	if err != nil {
		return fail(err)
	}

	var revenue float64
	for _, o := range orders {
		amount, _ := o.TotalAmount.Float64()
		revenue += amount
	}

	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %.2f revenue.\n",
		timestamp, len(customers), len(orders), revenue)

	if !j.write(line) {
		return Report{Job: j.name, Summary: "failed to write report log"}
	}

	j.logger.Info("CRM report generated",
		zap.Int("customers", len(customers)),
		zap.Int("orders", len(orders)),
		zap.Float64("revenue", revenue),
	)
	return Report{Job: j.name, Success: true, Summary: line[:len(line)-1]}
}
