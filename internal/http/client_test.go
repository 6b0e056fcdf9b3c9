package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bbhttp "github.com/fivetwenty-io/bitbucket-client/internal/http"
	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

// MockLogger for testing.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "debug", "msg": msg, "fields": fields})
}

func (l *MockLogger) Info(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "info", "msg": msg, "fields": fields})
}

func (l *MockLogger) Warn(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "warn", "msg": msg, "fields": fields})
}

func (l *MockLogger) Error(msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": "error", "msg": msg, "fields": fields})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/repositories/acme/widget", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"full_name": "acme/widget", "uuid": "{repo-uuid}"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		req := &bbhttp.Request{
			Method: "GET",
			Path:   "/repositories/acme/widget",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "acme/widget", result["full_name"])
		assert.Equal(t, "{repo-uuid}", result["uuid"])
	})

	t.Run("request with query parameters", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/repositories/acme", request.URL.Path)
			assert.Equal(t, "page=2&pagelen=50", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		req := &bbhttp.Request{
			Method: "GET",
			Path:   "/repositories/acme",
			Query:  url.Values{"page": []string{"2"}, "pagelen": []string{"50"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with JSON body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			err := json.NewDecoder(request.Body).Decode(&body)
			require.NoError(t, err)
			assert.Equal(t, "https://ci.example.com/hook", body["url"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		req := &bbhttp.Request{
			Method: "POST",
			Path:   "/repositories/acme/widget/hooks",
			Body:   map[string]string{"url": "https://ci.example.com/hook"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("request with form body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "application/x-www-form-urlencoded", request.Header.Get("Content-Type"))

			err := request.ParseForm()
			require.NoError(t, err)
			assert.Equal(t, "looks good", request.PostFormValue("content"))

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		resp, err := client.PostForm(context.Background(), "/repositories/acme/widget/commit/abc/comments",
			url.Values{"content": []string{"looks good"}})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("basic auth credentials attached", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			username, password, ok := request.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "builder", username)
			assert.Equal(t, "app-secret", password)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, &bitbucket.Credentials{
			Username:    "builder",
			AppPassword: "app-secret",
		})

		_, err := client.Get(context.Background(), "/user", nil)
		require.NoError(t, err)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom"))
			assert.Equal(t, "test-agent/2.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil, bbhttp.WithUserAgent("test-agent/2.0"))

		req := &bbhttp.Request{
			Method:  "GET",
			Path:    "/repositories/acme",
			Headers: map[string]string{"X-Custom": "custom-value"},
		}

		_, err := client.Do(context.Background(), req)
		require.NoError(t, err)
	})

	t.Run("absolute URL bypasses base URL", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/repositories/acme/widget/refs/branches", request.URL.Path)
			assert.Equal(t, "page=2", request.URL.RawQuery)
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bbhttp.NewClient("https://unused.invalid", nil)

		req := &bbhttp.Request{
			Method: "GET",
			Path:   server.URL + "/repositories/acme/widget/refs/branches?page=2",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("not found error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/repositories/acme/missing", nil)
		require.Error(t, err)
		assert.True(t, bitbucket.IsNotFound(err))
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		var requests int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt64(&requests, 1)
			writer.WriteHeader(http.StatusInternalServerError)
			_, _ = writer.Write([]byte(`{"error": {"message": "boom"}}`))
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), "/repositories/acme", nil)
		require.Error(t, err)
		assert.True(t, bitbucket.IsRequestFailed(err))

		var reqErr *bitbucket.RequestError

		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, 500, reqErr.StatusCode)
		assert.Contains(t, reqErr.Body, "boom")

		// Only rate-limited responses are retried.
		assert.Equal(t, int64(1), atomic.LoadInt64(&requests))
	})

	t.Run("communication error", func(t *testing.T) {
		t.Parallel()

		client := bbhttp.NewClient("http://127.0.0.1:1", nil, bbhttp.WithRetryConfig(0, time.Millisecond))

		_, err := client.Get(context.Background(), "/repositories/acme", nil)
		require.Error(t, err)
		assert.True(t, bitbucket.IsCommunicationError(err))
	})

	t.Run("debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := bbhttp.NewClient(server.URL, nil, bbhttp.WithLogger(logger), bbhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/repositories/acme", nil)
		require.NoError(t, err)

		require.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RateLimitRetries(t *testing.T) {
	t.Parallel()
	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		var requests int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if atomic.AddInt64(&requests, 1) <= 2 {
				writer.WriteHeader(http.StatusTooManyRequests)

				return
			}

			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte(`{"size": 1}`))
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil, bbhttp.WithRetryConfig(5, time.Millisecond))

		resp, err := client.Get(context.Background(), "/repositories/acme", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int64(3), atomic.LoadInt64(&requests))
	})

	t.Run("exhausted retries surface the final status", func(t *testing.T) {
		t.Parallel()

		var requests int64

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt64(&requests, 1)
			writer.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil, bbhttp.WithRetryConfig(1, time.Millisecond))

		_, err := client.Get(context.Background(), "/repositories/acme", nil)
		require.Error(t, err)

		var reqErr *bitbucket.RequestError

		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusTooManyRequests, reqErr.StatusCode)
		assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
	})

	t.Run("honors Retry-After header", func(t *testing.T) {
		t.Parallel()

		var requests int64

		start := time.Now()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if atomic.AddInt64(&requests, 1) == 1 {
				writer.Header().Set("Retry-After", "1")
				writer.WriteHeader(http.StatusTooManyRequests)

				return
			}

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil, bbhttp.WithRetryConfig(2, time.Millisecond))

		_, err := client.Get(context.Background(), "/repositories/acme", nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), time.Second)
	})

	t.Run("cancellation wins over another attempt", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil, bbhttp.WithRetryConfig(10, 5*time.Second))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		start := time.Now()

		_, err := client.Get(ctx, "/repositories/acme", nil)
		require.Error(t, err)
		assert.True(t, bitbucket.IsInterrupted(err))
		assert.Less(t, time.Since(start), 2*time.Second)
	})
}

func TestClient_Head(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "HEAD", request.Method)

		if request.URL.Path == "/repositories/acme/widget/src/main/README.md" {
			writer.WriteHeader(http.StatusOK)

			return
		}

		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := bbhttp.NewClient(server.URL, nil)

	status, err := client.Head(context.Background(), "/repositories/acme/widget/src/main/README.md", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	// Any status is a valid HEAD outcome.
	status, err = client.Head(context.Background(), "/repositories/acme/widget/src/main/missing.md", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestClient_GetStream(t *testing.T) {
	t.Parallel()
	t.Run("caller owns the body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_, _ = writer.Write([]byte("file contents\n"))
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		body, err := client.GetStream(context.Background(), "/repositories/acme/widget/src/main/file.txt", nil)
		require.NoError(t, err)

		defer func() {
			_ = body.Close()
		}()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "file contents\n", string(data))
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		body, err := client.GetStream(context.Background(), "/repositories/acme/widget/src/main/missing.txt", nil)
		require.Error(t, err)
		assert.Nil(t, body)
		assert.True(t, bitbucket.IsNotFound(err))
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream down"))
		}))
		defer server.Close()

		client := bbhttp.NewClient(server.URL, nil)

		body, err := client.GetStream(context.Background(), "/repositories/acme/widget/src/main/file.txt", nil)
		require.Error(t, err)
		assert.Nil(t, body)

		var reqErr *bitbucket.RequestError

		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
		assert.Contains(t, reqErr.Body, "upstream down")
	})
}

func TestClient_Interceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "trace-123", request.Header.Get("X-Trace-Id"))
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	chain := bitbucket.NewInterceptorChain()
	chain.AddRequestInterceptor(bitbucket.HeaderInterceptor("X-Trace-Id", "trace-123"))

	observed := 0

	chain.AddResponseInterceptor(func(ctx context.Context, req *bitbucket.Request, resp *bitbucket.Response) error {
		observed = resp.StatusCode

		return nil
	})

	client := bbhttp.NewClient(server.URL, nil, bbhttp.WithInterceptors(chain))

	_, err := client.Get(context.Background(), "/repositories/acme", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, observed)
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "DELETE", request.Method)
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := bbhttp.NewClient(server.URL, nil)

	resp, err := client.Delete(context.Background(), "/repositories/acme/widget/hooks/%7Buuid%7D")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
