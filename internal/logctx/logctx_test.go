package logctx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/eunmann/tifbench/pkg/logging"
)

func TestFromContext_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf))
	defer logging.Init(false, false)

	//nolint:staticcheck // nil context is part of the contract
	logger := FromContext(nil)
	logger.Info().Msg("from nil")

	if !strings.Contains(buf.String(), "from nil") {
		t.Errorf("expected default logger output, got: %s", buf.String())
	}
}

func TestFromContext_ContextWithoutLogger(t *testing.T) {
	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf))
	defer logging.Init(false, false)

	logger := FromContext(context.Background())
	logger.Info().Msg("fallback")

	if !strings.Contains(buf.String(), "fallback") {
		t.Errorf("expected default logger output, got: %s", buf.String())
	}
}

func TestWithLogger_AndFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Str("test_key", "test_value").Logger()

	ctx := WithLogger(context.Background(), logger)
	info(ctx, "test")

	if !strings.Contains(buf.String(), `"test_key":"test_value"`) {
		t.Errorf("expected test_key in output, got: %s", buf.String())
	}
}

func TestWithLogger_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	//nolint:staticcheck // nil context is part of the contract
	ctx := WithLogger(nil, logger)
	if ctx == nil {
		t.Fatal("WithLogger(nil, ...) returned nil context")
	}
	info(ctx, "ok")
	if buf.Len() == 0 {
		t.Error("expected output from attached logger")
	}
}

func TestWithCandidateAndIteration(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	ctx = WithCandidate(ctx, "grouped-planar")
	ctx = WithIteration(ctx, 3)
	warn(ctx, "load failed")

	out := buf.String()
	if !strings.Contains(out, `"candidate":"grouped-planar"`) {
		t.Errorf("expected candidate field, got: %s", out)
	}
	if !strings.Contains(out, `"iteration":3`) {
		t.Errorf("expected iteration field, got: %s", out)
	}
}

func TestChainedContexts(t *testing.T) {
	var buf bytes.Buffer
	root := WithLogger(context.Background(), zerolog.New(&buf))

	first := WithIteration(WithCandidate(root, "imaging"), 0)
	second := WithIteration(WithCandidate(root, "imaging"), 1)

	info(first, "first")
	info(second, "second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"iteration":0`) || strings.Contains(lines[0], `"iteration":1`) {
		t.Errorf("first line has wrong iteration: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"iteration":1`) {
		t.Errorf("second line has wrong iteration: %s", lines[1])
	}

	// The root context is unchanged by derived contexts.
	buf.Reset()
	info(root, "root")
	if strings.Contains(buf.String(), "candidate") {
		t.Errorf("root logger picked up child fields: %s", buf.String())
	}
}

func info(ctx context.Context, msg string) {
	l := FromContext(ctx)
	l.Info().Msg(msg)
}

func warn(ctx context.Context, msg string) {
	l := FromContext(ctx)
	l.Warn().Msg(msg)
}
