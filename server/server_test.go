package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/certcat/lintx509/config"
	"github.com/certcat/lintx509/files/pem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	content, err := os.ReadFile("../x509lint/testdata/" + name)
	require.NoError(t, err)
	return content
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	s, err := New(cfg, zaptest.NewLogger(t), prometheus.NewRegistry())
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, body []byte) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/inspect", "application/octet-stream", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestInspect(t *testing.T) {
	wosign := readTestdata(t, "wosign.pem")
	bundle := append(readTestdata(t, "constrained.pem"), wosign...)

	tests := map[string]struct {
		body      []byte
		wantCerts int
	}{
		"PEM":    {wosign, 1},
		"DER":    {pem.DER(wosign)[0], 1},
		"Bundle": {bundle, 2},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, config.Default())
			resp, decoded := post(t, ts, tc.body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Len(t, decoded["certificates"], tc.wantCerts)
		})
	}
}

func TestInspect_Errors(t *testing.T) {
	wosignDER := pem.DER(readTestdata(t, "wosign.pem"))[0]
	strict := config.Default()
	strict.Policy.RejectUnknownCritical = true
	small := config.Default()
	small.Server.MaxBodyBytes = 16

	tests := map[string]struct {
		cfg        *config.Config
		body       []byte
		wantStatus int
		wantKind   string
	}{
		"Garbage":   {config.Default(), []byte("hello"), http.StatusUnprocessableEntity, "UnexpectedTag"},
		"Truncated": {config.Default(), wosignDER[:100], http.StatusUnprocessableEntity, "DataTruncated"},
		"Empty":     {config.Default(), nil, http.StatusUnprocessableEntity, "DataTruncated"},
		"Strict":    {strict, wosignDER, http.StatusUnprocessableEntity, "UnrecognizedCriticalExtension"},
		"TooLarge":  {small, wosignDER, http.StatusRequestEntityTooLarge, ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ts := newTestServer(t, tc.cfg)
			resp, decoded := post(t, ts, tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, decoded["error"])
			if tc.wantKind != "" {
				assert.Equal(t, tc.wantKind, decoded["kind"])
			}
		})
	}
}

func TestInspect_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, config.Default())
	resp, err := http.Get(ts.URL + "/v1/inspect")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, config.Default())
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t, config.Default())
	post(t, ts, readTestdata(t, "wosign.pem"))
	post(t, ts, []byte("hello"))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `result="ok"} 1`)
	assert.Contains(t, string(body), `lintx509_certificates_parsed_total{kind="UnexpectedTag",result="error"} 1`)
	assert.Contains(t, string(body), "lintx509_certificates_input_bytes_count 2")
}

func TestRun_Shutdown(t *testing.T) {
	s, err := New(config.Default(), zaptest.NewLogger(t), prometheus.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx, "127.0.0.1:0"))
}
