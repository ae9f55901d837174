package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crm/internal/client"

	"go.uber.org/zap"
)

const (
	RemindersJob = "reminders"

	reportTimeLayout = "2006-01-02 15:04:05"
	reminderWindow   = 7 * 24 * time.Hour
)

// Reminders lists the orders placed in the last seven days
type Reminders struct {
	base
}

// NewReminders creates a Reminders job appending to logPath
func NewReminders(api API, logPath string, opts ...Option) *Reminders {
	return &Reminders{base: newBase(RemindersJob, api, logPath, opts)}
}

func (j *Reminders) Run(ctx context.Context) (report Report) {
	now := j.now()
	timestamp := now.Format(reportTimeLayout)
	defer j.guard(&report, func(msg string) string {
		return fmt.Sprintf("%s - Error: %s\n", timestamp, msg)
	})

	orders, err := j.api.ListOrders(ctx, client.OrderQuery{
		OrderDateGte: now.Add(-reminderWindow).Format("2006-01-02"),
	})
	if err != nil {
		j.logger.Error("Failed to retrieve orders", zap.Error(err))
		summary := "Failed to retrieve orders: " + truncate(err.Error(), maxErrorLen)
		j.write(fmt.Sprintf("%s - Error: %s\n", timestamp, summary))
		return Report{Job: j.name, Summary: summary}
	}

	var b strings.Builder
	if len(orders) == 0 {
		fmt.Fprintf(&b, "%s - No pending orders found in the last 7 days\n", timestamp)
	} else {
		fmt.Fprintf(&b, "\n%s - Processing %d pending orders:\n", timestamp, len(orders))
		for _, o := range orders {
			email, name := "N/A", "Unknown"
			if o.Customer != nil {
				email, name = o.Customer.Email, o.Customer.Name
			}
			fmt.Fprintf(&b, "%s - Order ID: %s, Customer Email: %s, Customer Name: %s, Order Date: %s\n",
				timestamp, o.ID, email, name, o.OrderDate.Format(time.RFC3339))
		}
	}

	if !j.write(b.String()) {
		return Report{Job: j.name, Summary: "failed to write reminders log"}
	}

	j.logger.Info("Order reminders processed", zap.Int("orders", len(orders)))
	return Report{Job: j.name, Success: true, Summary: fmt.Sprintf("%d pending orders", len(orders))}
}
