package obslog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-kit/log"
)

func TestInfo_LogsAtInfoLevelWithMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	Info(logger, "proposal created", "token", "abcd")

	out := buf.String()
	if !strings.Contains(out, "level=info") {
		t.Fatalf("expected level=info, got: %s", out)
	}
	if !strings.Contains(out, "msg=\"proposal created\"") {
		t.Fatalf("expected the message to be logged, got: %s", out)
	}
	if !strings.Contains(out, "token=abcd") {
		t.Fatalf("expected the key/value pair to be logged, got: %s", out)
	}
}

func TestWarn_LogsAtWarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	Warn(logger, "voting power oracle unavailable, falling back to sentinel")

	out := buf.String()
	if !strings.Contains(out, "level=warn") {
		t.Fatalf("expected level=warn, got: %s", out)
	}
}

func TestError_LogsAtErrorLevelWithErrValue(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)

	Error(logger, "station call failed", errors.New("boom"), "request_id", "r1")

	out := buf.String()
	if !strings.Contains(out, "level=error") {
		t.Fatalf("expected level=error, got: %s", out)
	}
	if !strings.Contains(out, "err=boom") {
		t.Fatalf("expected the error value to be logged, got: %s", out)
	}
	if !strings.Contains(out, "request_id=r1") {
		t.Fatalf("expected trailing key/value pairs to be logged, got: %s", out)
	}
}

func TestNew_AttachesComponentName(t *testing.T) {
	logger := New("backend")
	if logger == nil {
		t.Fatalf("expected New to return a non-nil logger")
	}
}
