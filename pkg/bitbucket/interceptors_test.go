package bitbucket_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/bitbucket-client/pkg/bitbucket"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {}

func TestInterceptorChain_Order(t *testing.T) {
	t.Parallel()

	chain := bitbucket.NewInterceptorChain()

	var order []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *bitbucket.Request) error {
		order = append(order, "first")

		return nil
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *bitbucket.Request) error {
		order = append(order, "second")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &bitbucket.Request{Method: "GET"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	chain := bitbucket.NewInterceptorChain()
	interceptorErr := errors.New("rejected")

	chain.AddRequestInterceptor(func(ctx context.Context, req *bitbucket.Request) error {
		return interceptorErr
	})
	chain.AddRequestInterceptor(func(ctx context.Context, req *bitbucket.Request) error {
		t.Fatal("second interceptor should not run")

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &bitbucket.Request{})
	require.ErrorIs(t, err, interceptorErr)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := bitbucket.HeaderInterceptor("X-Request-Source", "ci")

	req := &bitbucket.Request{Method: "GET"}
	require.NoError(t, interceptor(context.Background(), req))
	assert.Equal(t, "ci", req.Headers.Get("X-Request-Source"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	chain := bitbucket.NewInterceptorChain()
	chain.AddRequestInterceptor(bitbucket.LoggingInterceptor(logger))
	chain.AddResponseInterceptor(bitbucket.LoggingResponseInterceptor(logger))

	req := &bitbucket.Request{Method: "GET", Path: "/repositories/acme"}
	require.NoError(t, chain.ExecuteRequestInterceptors(context.Background(), req))

	resp := &bitbucket.Response{StatusCode: 200, Duration: 12 * time.Millisecond}
	require.NoError(t, chain.ExecuteResponseInterceptors(context.Background(), req, resp))

	assert.Equal(t, []string{"API Request", "API Response"}, logger.messages)
}
