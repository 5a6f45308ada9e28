package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"medconnect/pkg/logger"
)

// FunctionsClient calls HTTPS callable functions without waiting for them.
// Failures are logged and never returned.
type FunctionsClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

func NewFunctionsClient(baseURL string, ratePerSecond float64) *FunctionsClient {
	if ratePerSecond <= 0 {
		ratePerSecond = 20
	}
	burst := int(ratePerSecond)
	if burst < 1 {
		burst = 1
	}

	return &FunctionsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		timeout:    30 * time.Second,
	}
}

// Call fires the function in the background. idToken is forwarded as the
// caller identity when not empty.
func (f *FunctionsClient) Call(name string, args interface{}, idToken string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		if err := f.Invoke(ctx, name, args, idToken); err != nil {
			logger.Warn("Function %s failed: %v", name, err)
		}
	}()
}

// Invoke calls the function and waits for the response status.
func (f *FunctionsClient) Invoke(ctx context.Context, name string, args interface{}, idToken string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{"data": args})
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/"+name, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idToken != "" {
		req.Header.Set("Authorization", "Bearer "+idToken)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("function %s returned %d: %s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
