package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startailored/records-service/internal/adapters/metrics"
	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/mocks"
)

func TestMetrics_RecordDecision(t *testing.T) {
	m := metrics.New()

	m.RecordDecision(domain.EntityStaff, policy.OpDelete, false)
	m.RecordDecision(domain.EntityStaff, policy.OpDelete, false)
	m.RecordDecision(domain.EntityStaff, policy.OpDelete, true)

	const want = `
# HELP records_authorization_decisions_total Access policy decisions by entity, operation and outcome.
# TYPE records_authorization_decisions_total counter
records_authorization_decisions_total{entity="staff",operation="delete",outcome="allowed"} 1
records_authorization_decisions_total{entity="staff",operation="delete",outcome="denied"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "records_authorization_decisions_total"))
}

func TestMetrics_PolicyIntegration(t *testing.T) {
	m := metrics.New()
	p := policy.New(zerolog.Nop(), m)

	_ = p.Authorize(mocks.ClientSession(1), domain.EntityInventory, policy.OpRead)
	_ = p.Authorize(mocks.ClientSession(1), domain.EntityInventory, policy.OpCreate)

	count, err := testutil.GatherAndCount(m.Registry(), "records_authorization_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_RecordLoginAndRequests(t *testing.T) {
	m := metrics.New()

	m.RecordLogin(domain.PrincipalClient, true)
	m.RecordLogin(domain.PrincipalStaff, false)
	m.ObserveRequest(http.MethodGet, "/staff/{id}", http.StatusOK, 20*time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "records_logins_total", "records_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = testutil.GatherAndCount(m.Registry(), "records_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_InstrumentPublisher(t *testing.T) {
	m := metrics.New()
	next := mocks.NewMockEventPublisher()
	pub := m.InstrumentPublisher(next)
	evt := domain.Event{ID: "1", Type: "client.created"}

	require.NoError(t, pub.Publish(context.Background(), evt))
	next.PublishError = errors.New("down")
	require.Error(t, pub.Publish(context.Background(), evt))

	const want = `
# HELP records_events_published_total Domain events handed to the broker by type and outcome.
# TYPE records_events_published_total counter
records_events_published_total{outcome="failure",type="client.created"} 1
records_events_published_total{outcome="success",type="client.created"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "records_events_published_total"))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.RecordLogin(domain.PrincipalStaff, true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `records_logins_total{kind="staff",outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
