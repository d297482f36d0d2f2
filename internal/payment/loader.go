package payment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// HTTPScriptLoader fetches the widget's client script once. Concurrent Load
// calls share a single request.
type HTTPScriptLoader struct {
	client *http.Client
	url    string
	loaded atomic.Bool
	sfg    singleflight.Group
	log    *zap.Logger
}

func NewHTTPScriptLoader(client *http.Client, url string, log *zap.Logger) *HTTPScriptLoader {
	return &HTTPScriptLoader{client: client, url: url, log: log}
}

func (l *HTTPScriptLoader) Loaded() bool {
	return l.loaded.Load()
}

func (l *HTTPScriptLoader) Load(ctx context.Context) error {
	_, err, shared := l.sfg.Do(l.url, func() (interface{}, error) {
		if l.loaded.Load() {
			return nil, nil
		}
		if err := l.fetch(ctx); err != nil {
			return nil, err
		}
		l.loaded.Store(true)
		l.log.Info("payment script loaded", zap.String("url", l.url))
		return nil, nil
	})
	if shared {
		l.log.Debug("joined in-flight script load", zap.String("url", l.url))
	}
	return err
}

func (l *HTTPScriptLoader) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("build script request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch script: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch script: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("fetch script: empty body")
	}
	return nil
}
