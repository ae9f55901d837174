package jobs

import (
	"context"
	"errors"
	"fmt"

	"crm/internal/client"

	"go.uber.org/zap"
)

const (
	HeartbeatJob = "heartbeat"

	heartbeatTimeLayout = "02/01/2006-15:04:05"
	probeErrorLen       = 30
)

// Heartbeat records that the CRM is alive together with the outcome of a
// greeting probe. The line is written whether or not the probe succeeds.
type Heartbeat struct {
	base
}

// NewHeartbeat creates a Heartbeat appending to logPath
func NewHeartbeat(api API, logPath string, opts ...Option) *Heartbeat {
	return &Heartbeat{base: newBase(HeartbeatJob, api, logPath, opts)}
}

func (h *Heartbeat) Run(ctx context.Context) (report Report) {
	timestamp := h.now().Format(heartbeatTimeLayout)
	defer h.guard(&report, func(msg string) string {
		return fmt.Sprintf("%s CRM is alive (GraphQL: %s)\n", timestamp, truncate(msg, probeErrorLen))
	})

	status := h.probe(ctx)
	line := fmt.Sprintf("%s CRM is alive (GraphQL: %s)\n", timestamp, status)

	if !h.write(line) {
		return Report{Job: h.name, Summary: "failed to write heartbeat log"}
	}
	return Report{Job: h.name, Success: status == "OK", Summary: line[:len(line)-1]}
}

// probe calls the greeting endpoint and describes the result
func (h *Heartbeat) probe(ctx context.Context) string {
	hello, err := h.api.Hello(ctx)
	if err == nil {
		if hello == "" {
			return "No response"
		}
		return "OK"
	}

	h.logger.Warn("Heartbeat probe failed", zap.Error(err))

	switch classify(err) {
	case failureStatus:
		var statusErr *client.StatusError
		errors.As(err, &statusErr)
		return fmt.Sprintf("HTTP %d", statusErr.StatusCode)
	case failureTimeout:
		return "Timeout"
	case failureConnection:
		return "Connection failed"
	default:
		return truncate(err.Error(), probeErrorLen)
	}
}
