package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/metrics"
	"github.com/MKhiriev/go-vault-envelope/internal/mock"
	"github.com/MKhiriev/go-vault-envelope/internal/service"
	"github.com/MKhiriev/go-vault-envelope/models"
)

const testMaxBlobSize = 64

// testServices holds the gomock services behind a test Handler.
type testServices struct {
	session *mock.MockSessionService
	blobs   *mock.MockBlobService
	appInfo *mock.MockAppInfoService
	metrics *metrics.Metrics
}

func newTestHandler(t *testing.T) (*Handler, *testServices) {
	t.Helper()
	ctrl := gomock.NewController(t)

	ts := &testServices{
		session: mock.NewMockSessionService(ctrl),
		blobs:   mock.NewMockBlobService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
		metrics: metrics.New(),
	}
	services := &service.Services{
		VaultService:   mock.NewMockVaultService(ctrl),
		SessionService: ts.session,
		BlobService:    ts.blobs,
		AppInfoService: ts.appInfo,
	}

	h := NewHandler(services, config.Server{MaxBlobSize: testMaxBlobSize}, ts.metrics, logger.Nop())
	return h, ts
}

// serve runs req through the full router.
func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

// authorize makes the session mock accept "good-token" for alice.
func (ts *testServices) authorize() {
	ts.session.EXPECT().ParseToken(gomock.Any(), "good-token").
		Return(models.Token{Subject: "alice"}, nil).AnyTimes()
}

func withBearer(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func TestNewHandler(t *testing.T) {
	h, ts := newTestHandler(t)

	assert.Equal(t, int64(testMaxBlobSize), h.maxBlobSize)
	assert.Same(t, ts.metrics, h.metrics)
	assert.NotNil(t, h.traceIDs)
}

func TestHandler_VersionIsPublic(t *testing.T) {
	h, ts := newTestHandler(t)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.4.0")

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.4.0", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestHandler_ServerInfoIsPublic(t *testing.T) {
	h, ts := newTestHandler(t)
	ts.appInfo.EXPECT().GetServerInfo(gomock.Any()).Return(models.ServerInfo{
		Version:            "1.4.0",
		EnvelopeVersion:    1,
		CipherSuites:       []string{"AES-256-GCM"},
		DefaultCipherSuite: "AES-256-GCM",
		KDF:                "argon2id",
		MaxBlobSize:        testMaxBlobSize,
	})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/info", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"version": "1.4.0",
		"envelopeVersion": 1,
		"cipherSuites": ["AES-256-GCM"],
		"defaultCipherSuite": "AES-256-GCM",
		"kdf": "argon2id",
		"validateEnvelopes": false,
		"maxBlobSize": 64
	}`, rec.Body.String())
}

func TestHandler_MetricsEndpoint(t *testing.T) {
	h, ts := newTestHandler(t)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1")
	router := h.Init()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/version", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/version",status="200"} 1`)
}

func TestHandler_NoMetricsRouteWithoutMetrics(t *testing.T) {
	h, _ := newTestHandler(t)
	h.metrics = nil

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UnsupportedMethodIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/version"},
		{http.MethodDelete, "/api/blobs/main"},
		{http.MethodPatch, "/api/blobs"},
		{http.MethodGet, "/api/session"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(h, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestHandler_SetsTraceID(t *testing.T) {
	h, ts := newTestHandler(t)
	ts.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1").Times(2)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(traceIDHeader, "abc-123")
	rec = serve(h, req)
	assert.Equal(t, "abc-123", rec.Header().Get(traceIDHeader))
}
