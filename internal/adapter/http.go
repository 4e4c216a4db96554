package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/internal/store"
	"github.com/MKhiriev/go-vault-envelope/internal/utils"
	"github.com/MKhiriev/go-vault-envelope/models"
)

const (
	sessionPath = "/api/session"
	blobsPath   = "/api/blobs"
	blobPath    = "/api/blobs/{id}"

	retryWaitTime = 200 * time.Millisecond
)

type httpRemoteStore struct {
	client *utils.HTTPClient
	apiKey string

	mu        sync.RWMutex
	token     string
	namespace string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the HTTP implementation of [RemoteStore].
// It normalises and validates cfg.URL and configures timeouts and retries
// for transient failures. No request is sent until the first call.
func NewHTTPRemoteStore(cfg config.Remote, log *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote url: %w", err)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("empty remote api key")
	}

	client := utils.NewHTTPClient().WithRetries(cfg.RetryCount, retryWaitTime)
	client.SetBaseURL(baseURL)
	if cfg.RequestTimeout.Std() > 0 {
		client.SetTimeout(cfg.RequestTimeout.Std())
	}

	return &httpRemoteStore{client: client, apiKey: cfg.APIKey, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Connect implements [RemoteStore]. It POSTs the API key to /api/session and
// keeps the returned bearer token. The namespace is read from the token
// subject without verifying the signature; the server verifies it on every
// request.
func (h *httpRemoteStore) Connect(ctx context.Context) error {
	var session models.SessionResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SessionRequest{APIKey: h.apiKey}).
		SetResult(&session).
		Post(sessionPath)
	if err != nil {
		return fmt.Errorf("%w: session request: %w", store.ErrIO, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token := session.Token
	if header := resp.Header().Get("Authorization"); header != "" {
		if token, err = utils.ParseBearerToken(header); err != nil {
			return fmt.Errorf("%w: session parse bearer token: %w", ErrUnauthorized, err)
		}
	}

	namespace, err := utils.ParseSubjectFromJWT(token)
	if err != nil {
		return fmt.Errorf("%w: session token subject: %w", ErrUnauthorized, err)
	}

	h.mu.Lock()
	h.token = token
	h.namespace = namespace
	h.mu.Unlock()

	h.logger.Debug().Str("func", "*httpRemoteStore.Connect").Str("namespace", namespace).Msg("connected to blob server")
	return nil
}

// Disconnect implements [RemoteStore].
func (h *httpRemoteStore) Disconnect() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
	h.namespace = ""
}

// Connected implements [RemoteStore].
func (h *httpRemoteStore) Connected() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token != ""
}

// Namespace implements [RemoteStore].
func (h *httpRemoteStore) Namespace() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.namespace
}

func (h *httpRemoteStore) currentToken() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// do runs the authenticated request built by send, connecting first if
// needed and reconnecting once on 401.
func (h *httpRemoteStore) do(ctx context.Context, send func(req *resty.Request) (*resty.Response, error)) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		if !h.Connected() {
			if err := h.Connect(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := send(h.client.R().SetContext(ctx).SetAuthToken(h.currentToken()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrIO, err)
		}
		if resp.StatusCode() == http.StatusUnauthorized && attempt == 0 {
			h.logger.Debug().Str("func", "*httpRemoteStore.do").Msg("session expired, reconnecting")
			h.Disconnect()
			continue
		}
		return resp, mapHTTPError(resp)
	}
}

// Write implements [store.BlobStore] via PUT /api/blobs/{id}.
func (h *httpRemoteStore) Write(ctx context.Context, id string, data []byte) error {
	if err := store.ValidateBlobID(id); err != nil {
		return err
	}

	_, err := h.do(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetPathParam("id", id).
			SetHeader("Content-Type", "application/json").
			SetHeader(utils.ChecksumHeader, utils.Checksum(data)).
			SetBody(data).
			Put(blobPath)
	})
	return err
}

// Read implements [store.BlobStore] via GET /api/blobs/{id}. The body is
// checked against the checksum header.
func (h *httpRemoteStore) Read(ctx context.Context, id string) ([]byte, error) {
	if err := store.ValidateBlobID(id); err != nil {
		return nil, err
	}

	resp, err := h.do(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetPathParam("id", id).Get(blobPath)
	})
	if err != nil {
		return nil, err
	}

	data := resp.Body()
	if !utils.VerifyChecksum(data, resp.Header().Get(utils.ChecksumHeader)) {
		return nil, fmt.Errorf("%w: %w: %s", store.ErrIO, ErrChecksumMismatch, id)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Exists implements [store.BlobStore] via HEAD /api/blobs/{id}.
func (h *httpRemoteStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := store.ValidateBlobID(id); err != nil {
		return false, err
	}

	_, err := h.do(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetPathParam("id", id).Head(blobPath)
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// List implements [store.BlobStore] via GET /api/blobs?prefix=.
func (h *httpRemoteStore) List(ctx context.Context, prefix string) ([]models.BlobInfo, error) {
	var infos []models.BlobInfo
	_, err := h.do(ctx, func(req *resty.Request) (*resty.Response, error) {
		return req.SetQueryParam("prefix", prefix).SetResult(&infos).Get(blobsPath)
	})
	if err != nil {
		return nil, err
	}
	if infos == nil {
		infos = []models.BlobInfo{}
	}
	return infos, nil
}
