package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_IndependentInstances(t *testing.T) {
	// Each instance owns its registry, so creating two must not panic.
	a := NewMetrics("")
	b := NewMetrics("")

	a.SetRegistryTokens("devnet", 5)
	assert.Equal(t, 5.0, testutil.ToFloat64(a.RegistryTokens.WithLabelValues("devnet")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RegistryTokens.WithLabelValues("devnet")))
}

func TestMetrics_RecordRPCCall(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRPCCall("getMultipleAccounts", 10*time.Millisecond, nil)
	m.RecordRPCCall("getMultipleAccounts", 20*time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCallErrors.WithLabelValues("getMultipleAccounts")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCCallLatency))
}

func TestMetrics_RecordAudit(t *testing.T) {
	m := NewMetrics("test")

	m.RecordAuditCheck("USDC", "mint", "ok")
	m.RecordAuditCheck("USDC", "mint", "ok")
	m.RecordAuditCheck("FWC", "price_feed", "mismatch")
	m.RecordAuditRun("devnet", "ok", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuditChecks.WithLabelValues("USDC", "mint", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditChecks.WithLabelValues("FWC", "price_feed", "mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuditRunsTotal.WithLabelValues("devnet", "ok")))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessfulAudit), 0.0)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.SetRegistryTokens("mainnet", 4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `test_registry_tokens{network="mainnet"} 4`)
}
