package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"md-link-check/internal/domain"
)

func TestCollector_RecordVerdict(t *testing.T) {
	c := NewCollector(zap.NewNop())

	valid := domain.Valid("https://example.com/", 200)
	valid.Elapsed = 20 * time.Millisecond
	c.RecordVerdict(valid)
	c.RecordVerdict(domain.InvalidStatus("https://example.com/missing", 404))
	c.RecordVerdict(domain.InvalidStatus("https://example.com/gone", 410))
	c.RecordVerdict(domain.Unchecked("https://example.com/late", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.probesTotal.WithLabelValues("valid", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.probesTotal.WithLabelValues("invalid", "http_status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.probesTotal.WithLabelValues("unchecked", "cancelled")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.probeDuration))
}

func TestCollector_Workers(t *testing.T) {
	c := NewCollector(zap.NewNop())

	c.RecordWorkerStart("0")
	c.RecordWorkerStart("1")
	c.RecordWorkerStop("0")
	c.RecordDispatch()
	c.RecordDispatch()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeWorkers))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.workerStops.WithLabelValues("0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.linksDispatched))
}

func TestCollector_Candidates(t *testing.T) {
	c := NewCollector(zap.NewNop())

	c.RecordCandidates(10, 4)
	c.RecordInputError("docs/missing.md")

	assert.Equal(t, 10.0, testutil.ToFloat64(c.candidates))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.uniqueLinks))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inputErrors.WithLabelValues("docs/missing.md")))
}

func TestCollector_PrivateRegistries(t *testing.T) {
	a := NewCollector(zap.NewNop())
	b := NewCollector(zap.NewNop())

	a.RecordDispatch()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.linksDispatched))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.linksDispatched))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector(zap.NewNop())
	c.RecordVerdict(domain.InvalidStatus("https://example.com/missing", 404))

	path := filepath.Join(t.TempDir(), "md_link_check.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data),
		`md_link_check_probes_total{outcome="invalid",reason="http_status"} 1`), string(data))
}

func TestCollector_WriteTextfileError(t *testing.T) {
	c := NewCollector(zap.NewNop())
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "out.prom"))
	assert.Error(t, err)
}
