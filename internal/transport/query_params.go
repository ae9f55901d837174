package transport

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter values that do not parse are dropped so that a bad criterion never
// rejects the request.

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

func queryTime(q url.Values, key string) *time.Time {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

func queryDecimal(q url.Values, key string) *decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &d
}

func queryInt(q url.Values, key string) *int {
	i, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &i
}

func queryBool(q url.Values, key string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &b
}

func queryUUID(q url.Values, key string) *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return nil
	}
	return &id
}
