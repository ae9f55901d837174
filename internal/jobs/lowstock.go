package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm/internal/client"

	"go.uber.org/zap"
)

const LowStockJob = "lowstock"

var (
	doubleRule = strings.Repeat("=", 60)
	singleRule = strings.Repeat("-", 60)
)

// LowStock triggers the restock sweep and records which products were topped up
type LowStock struct {
	base
}

// NewLowStock creates a LowStock job appending to logPath
func NewLowStock(api API, logPath string, opts ...Option) *LowStock {
	return &LowStock{base: newBase(LowStockJob, api, logPath, opts)}
}

func (j *LowStock) Run(ctx context.Context) (report Report) {
	timestamp := j.now().Format(heartbeatTimeLayout)
	defer j.guard(&report, func(msg string) string {
		return fmt.Sprintf("%s - ERROR: %s\n", timestamp, msg)
	})

	header := fmt.Sprintf("\n%s\n%s - Low Stock Update Started\n%s\n", doubleRule, timestamp, doubleRule)

	result, err := j.api.UpdateLowStockProducts(ctx)
	if err != nil {
		j.logger.Error("Low stock update failed", zap.Error(err))

		var b strings.Builder
		var summary string
		switch classify(err) {
		case failureStatus:
			var statusErr *client.StatusError
			errors.As(err, &statusErr)
			summary = fmt.Sprintf("API request failed with status %d", statusErr.StatusCode)
			b.WriteString(header)
			fmt.Fprintf(&b, "ERROR: %s\n", summary)
			fmt.Fprintf(&b, "Response: %s\n", truncate(statusErr.Body, maxErrorLen))
		case failureTimeout:
			summary = "Request timeout while connecting to CRM API"
			fmt.Fprintf(&b, "%s - ERROR: %s\n", timestamp, summary)
		case failureConnection:
			summary = "Connection error: Could not reach CRM API"
			fmt.Fprintf(&b, "%s - ERROR: %s\n", timestamp, summary)
		default:
			summary = truncate("Unexpected error: "+err.Error(), maxErrorLen)
			fmt.Fprintf(&b, "%s - ERROR: %s\n", timestamp, summary)
		}

		j.write(b.String())
		return Report{Job: j.name, Summary: summary}
	}

	status := "FAILED"
	if result.Success {
		status = "SUCCESS"
	}

	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Message: %s\n", result.Message)
	fmt.Fprintf(&b, "Products Updated: %d\n", len(result.Products))

	if len(result.Products) > 0 {
		fmt.Fprintf(&b, "\nUpdated Products:\n%s\n", singleRule)
		for _, p := range result.Products {
			fmt.Fprintf(&b, "  ID: %s | Name: %s | New Stock: %d\n", p.ID, p.Name, p.Stock)
		}
	} else {
		b.WriteString("\nNo products required restocking.\n")
	}
	b.WriteString(singleRule + "\n")

	if !j.write(b.String()) {
		return Report{Job: j.name, Summary: "failed to write low stock log"}
	}

	j.logger.Info("Low stock update completed", zap.Int("updated", len(result.Products)))
	return Report{
		Job:     j.name,
		Success: result.Success,
		Summary: fmt.Sprintf("%d products updated", len(result.Products)),
	}
}
