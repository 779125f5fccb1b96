package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/lead-service/internal/api/dto"
	"github.com/spec-kit/lead-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-service/internal/events"
	"github.com/spec-kit/lead-service/internal/observability"
	"github.com/spec-kit/lead-service/internal/persistence"
	"github.com/spec-kit/lead-service/internal/repository"
	"github.com/spec-kit/lead-service/internal/service"
)

var admins = []int64{6746524257, 1104390150}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type stubSender struct {
	mu   sync.Mutex
	sent []int64
	text []string
	err  error
}

func (s *stubSender) Send(ctx context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, chatID)
	s.text = append(s.text, text)
	return s.err
}

type testServer struct {
	app    *fiber.App
	clock  *clock
	sender *stubSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	db, err := persistence.NewSQLite(ctx, filepath.Join(t.TempDir(), "leads.db"), logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persistence.EnsureSQLiteSchema(ctx, db.DB, logger))

	clk := &clock{t: time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)}
	sender := &stubSender{}
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	service.NewNotificationService(dispatcher, sender, admins, metrics, logger).RegisterHandlers()

	leads := service.NewLeadService(service.LeadDependencies{
		LeadRepo:   repository.NewSQLiteLeadRepository(db.DB, clk.Now),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Now:        clk.Now,
	})

	app := NewApp("lead-service-test", AppDependencies{
		Logger:         logger,
		RequestTimeout: 5 * time.Second,
		Routes: RouteConfig{
			Health:  handlers.NewHealthHandler("lead-service", "test", map[string]handlers.Pinger{"sqlite": db}),
			Leads:   handlers.NewLeadsHandler(leads, time.Local),
			Metrics: metrics,
		},
	})
	return &testServer{app: app, clock: clk, sender: sender}
}

func (s *testServer) do(t *testing.T, req *nethttp.Request) (*nethttp.Response, []byte) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func (s *testServer) postLead(t *testing.T, payload map[string]string) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(nethttp.MethodPost, "/lead", strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	resp, body := s.do(t, req)

	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func (s *testServer) listLeads(t *testing.T, query string) dto.LeadListResponse {
	t.Helper()
	resp, body := s.do(t, httptest.NewRequest(nethttp.MethodGet, "/admin/leads"+query, nil))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, string(body))

	var out dto.LeadListResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestCreateLeadStoresAndNotifiesEveryAdmin(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.postLead(t, map[string]string{"name": "Ivan", "phone": "+1234"})
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, true, body["success"])

	list := srv.listLeads(t, "")
	require.True(t, list.Success)
	require.Len(t, list.Leads, 1)
	lead := list.Leads[0]
	assert.Equal(t, "Ivan", lead.Name)
	assert.Equal(t, "+1234", lead.Phone)
	assert.Equal(t, "", lead.Comment)
	assert.Equal(t, srv.clock.Now().Format(time.RFC3339), lead.CreatedAt)

	assert.Equal(t, admins, srv.sender.sent)
	for _, text := range srv.sender.text {
		assert.Contains(t, text, "📝 Comment:\n—")
	}
}

func TestCreateLeadTrimsAndMapsUsage(t *testing.T) {
	srv := newTestServer(t)

	status, _ := srv.postLead(t, map[string]string{
		"name":    "  Olga ",
		"phone":   " +5678 ",
		"company": gofakeit.Company(),
		"usage":   "packaging",
		"comment": "call after 5",
	})
	require.Equal(t, nethttp.StatusOK, status)

	lead := srv.listLeads(t, "").Leads[0]
	assert.Equal(t, "Olga", lead.Name)
	assert.Equal(t, "+5678", lead.Phone)
	assert.Equal(t, "packaging", lead.UsagePurpose)
	assert.Equal(t, "call after 5", lead.Comment)
}

func TestCreateLeadRejectsMissingName(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.postLead(t, map[string]string{"name": "", "phone": "+1"})
	assert.Equal(t, nethttp.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "name and phone are required", body["message"])

	assert.Empty(t, srv.listLeads(t, "").Leads)
	assert.Empty(t, srv.sender.sent)
}

func TestCreateLeadRejectsNonJSONBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/lead", strings.NewReader("name=Ivan&phone=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, body := srv.do(t, req)

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"success":false,"message":"invalid payload"}`, string(body))
	assert.Empty(t, srv.listLeads(t, "").Leads)
}

func TestCreateLeadSucceedsWhenNotificationFails(t *testing.T) {
	srv := newTestServer(t)
	srv.sender.err = errors.New("telegram unreachable")

	status, body := srv.postLead(t, map[string]string{"name": "Ivan", "phone": "+1234"})
	assert.Equal(t, nethttp.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"success": true}, body)
	assert.Len(t, srv.listLeads(t, "").Leads, 1)
	assert.Len(t, srv.sender.sent, len(admins))
}

func TestListLeadsAppliesLimitNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	start := srv.clock.Now()
	for i := 0; i < 15; i++ {
		srv.clock.Set(start.Add(time.Duration(i) * time.Minute))
		status, _ := srv.postLead(t, map[string]string{"name": fmt.Sprintf("lead-%02d", i), "phone": gofakeit.Phone()})
		require.Equal(t, nethttp.StatusOK, status)
	}

	limited := srv.listLeads(t, "?limit=5")
	require.Len(t, limited.Leads, 5)
	for i, lead := range limited.Leads {
		assert.Equal(t, fmt.Sprintf("lead-%02d", 14-i), lead.Name)
	}

	assert.Len(t, srv.listLeads(t, "").Leads, 10)
	assert.Len(t, srv.listLeads(t, "?limit=abc").Leads, 10)
	assert.Len(t, srv.listLeads(t, "?limit=-2").Leads, 10)
	assert.Len(t, srv.listLeads(t, "?limit=50").Leads, 15)
}

func TestListLeadsIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 3; i++ {
		srv.postLead(t, map[string]string{"name": gofakeit.Name(), "phone": gofakeit.Phone()})
	}

	first := srv.listLeads(t, "?period=month")
	second := srv.listLeads(t, "?period=month")
	assert.Equal(t, first, second)
}

func TestListLeadsFiltersByLocalPeriod(t *testing.T) {
	srv := newTestServer(t)
	days := []time.Time{
		time.Date(2024, time.December, 31, 23, 30, 0, 0, time.Local),
		time.Date(2025, time.May, 20, 9, 0, 0, 0, time.Local),
		time.Date(2025, time.June, 2, 9, 0, 0, 0, time.Local),
		time.Date(2025, time.June, 15, 0, 5, 0, 0, time.Local),
	}
	for i, day := range days {
		srv.clock.Set(day)
		srv.postLead(t, map[string]string{"name": fmt.Sprintf("day-%d", i), "phone": "1"})
	}
	srv.clock.Set(time.Date(2025, time.June, 15, 18, 0, 0, 0, time.Local))

	names := func(list dto.LeadListResponse) []string {
		out := make([]string, 0, len(list.Leads))
		for _, l := range list.Leads {
			out = append(out, l.Name)
		}
		return out
	}

	assert.Equal(t, []string{"day-3"}, names(srv.listLeads(t, "?period=today")))
	assert.Equal(t, []string{"day-3", "day-2"}, names(srv.listLeads(t, "?period=month")))
	assert.Equal(t, []string{"day-3", "day-2", "day-1"}, names(srv.listLeads(t, "?period=year")))
	assert.Equal(t, []string{"day-3", "day-2", "day-1", "day-0"}, names(srv.listLeads(t, "?period=all")))
	assert.Equal(t, []string{"day-3", "day-2", "day-1", "day-0"}, names(srv.listLeads(t, "?period=fortnight")))
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/", nil))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	req := httptest.NewRequest(nethttp.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, body := srv.do(t, req)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "Backend is running", string(body))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)

	resp, body := srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/nope", nil))
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)

	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, false, out["success"])
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.postLead(t, map[string]string{"name": "Ivan", "phone": "+1234"})

	resp, body := srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/health/live", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"alive"`)

	resp, body = srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/health/ready", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"sqlite":"ok"`)

	resp, body = srv.do(t, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "leads_created_total 1")
	assert.Contains(t, string(body), `notifications_total{outcome="delivered"} 2`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/lead", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, _ := srv.do(t, req)

	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
