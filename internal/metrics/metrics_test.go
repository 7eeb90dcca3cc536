package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roundtrip/internal/compare"
)

func TestCollectorObserve(t *testing.T) {
	c := NewCollector()

	c.Start()
	c.Start()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.inFlight))

	c.Observe(compare.Match, 10*time.Millisecond)
	c.Observe(compare.Crash, time.Second)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filesTotal.WithLabelValues("match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.filesTotal.WithLabelValues("crash")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.filesTotal.WithLabelValues("semantic_mismatch")))
	assert.Equal(t, len(compare.Verdicts), testutil.CollectAndCount(c.filesTotal))
}

func TestCollectorWriteTextfile(t *testing.T) {
	c := NewCollector()
	c.Start()
	c.Observe(compare.CosmeticMismatch, time.Millisecond)
	c.Interrupted()

	path := filepath.Join(t.TempDir(), "roundtrip.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `roundtrip_files_total{verdict="cosmetic_mismatch"} 1`)
	assert.Contains(t, text, "roundtrip_run_interrupted 1")
	assert.Contains(t, text, "roundtrip_file_duration_seconds_bucket")
}

func TestCollectorWriteTextfileBadPath(t *testing.T) {
	err := NewCollector().WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
