package jobs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"crm/internal/client"
)

const maxErrorLen = 200

// appendLog writes text to path in a single append, creating the file if needed
func appendLog(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log %s: %w", path, err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to log %s: %w", path, err)
	}
	return f.Close()
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type failureKind int

const (
	failureOther failureKind = iota
	failureStatus
	failureTimeout
	failureConnection
)

// classify sorts an API call error into the categories the job logs distinguish
func classify(err error) failureKind {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return failureStatus
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failureTimeout
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, syscall.ECONNREFUSED) {
		return failureConnection
	}
	return failureOther
}
