package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"task-service.com/task-service/internal/database"
)

func TestPoolCollector(t *testing.T) {
	c := NewPoolCollector(func() database.PoolStats {
		return database.PoolStats{Total: 4, Idle: 3, Waiting: 2}
	})

	if n := testutil.CollectAndCount(c); n != 3 {
		t.Fatalf("expected 3 metrics, got %d", n)
	}

	expected := `
# HELP db_pool_waiting Callers waiting for a database connection
# TYPE db_pool_waiting gauge
db_pool_waiting 2
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "db_pool_waiting"); err != nil {
		t.Errorf("unexpected collector output: %v", err)
	}
}

func TestSortFallbacksCounter(t *testing.T) {
	before := testutil.ToFloat64(SortFallbacks.WithLabelValues("sort"))
	SortFallbacks.WithLabelValues("sort").Inc()

	if got := testutil.ToFloat64(SortFallbacks.WithLabelValues("sort")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}
}
