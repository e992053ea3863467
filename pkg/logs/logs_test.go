package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/kliniksehat/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestNewLogger_JSONOutsideDevelopment(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Environment = "production"

	var buf bytes.Buffer
	newLogger(&buf, &cfg, false).Info("hello", slog.String("role", "Dokter"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "Dokter", line["role"])
	assert.Equal(t, "kliniksehat", line["service"])
	assert.Equal(t, "production", line["env"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	log := newLogger(&buf, &cfg, true)
	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_PushesToLoki(t *testing.T) {
	var (
		mu     sync.Mutex
		pushes []lokiPush
		user   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, lokiPushPath, r.URL.Path)
		var p lokiPush
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&p)) {
			mu.Lock()
			pushes = append(pushes, p)
			user, _, _ = r.BasicAuth()
			mu.Unlock()
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Server.Environment = "production"
	cfg.Logging.Output.Stdout = false
	cfg.Logging.Output.Loki = config.LokiConfig{Enabled: true, Endpoint: srv.URL + "/", Username: "grafana"}

	New(&cfg).Info("prescription propagated", slog.String("to", "Apoteker"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, pushes, 1)
	require.Len(t, pushes[0].Streams, 1)
	stream := pushes[0].Streams[0]
	assert.Equal(t, map[string]string{"service": "kliniksehat", "env": "production"}, stream.Stream)
	require.Len(t, stream.Values, 1)
	assert.Contains(t, stream.Values[0][1], `"msg":"prescription propagated"`)
	assert.Contains(t, stream.Values[0][1], `"to":"Apoteker"`)
	assert.Equal(t, "grafana", user)
}

func TestLokiWriter_RejectedPush(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Logging.Output.Loki = config.LokiConfig{Enabled: true, Endpoint: srv.URL}

	_, err := newLokiWriter(&cfg).Write([]byte("{}\n"))
	assert.Error(t, err)
}

func TestMultiHandler_RespectsEachLevel(t *testing.T) {
	var debug, warn bytes.Buffer
	h := fanout([]slog.Handler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	})
	log := slog.New(h).With(slog.String("role", "Kasir"))

	log.Info("partition saved")
	assert.Contains(t, debug.String(), "role=Kasir")
	assert.Zero(t, warn.Len())

	log.Warn("write failed")
	assert.Contains(t, warn.String(), "write failed")
}
