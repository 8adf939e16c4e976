package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestTimeLogsRequestIDAndError(t *testing.T) {
	buf := captureLog(t)

	ctx := WithRequestID(context.Background(), "abc-123")
	err := errors.New("boom")
	Time(ctx, "network.ShortestPath")(&err)

	line := buf.String()
	for _, want := range []string{"req_id=abc-123", "op=network.ShortestPath", "err=boom"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}

func TestTimeWithoutError(t *testing.T) {
	buf := captureLog(t)

	var err error
	Time(context.Background(), "network.ListPoints")(&err)

	if strings.Contains(buf.String(), "err=") {
		t.Fatalf("unexpected err field in %q", buf.String())
	}
	if RequestID(context.Background()) != "" {
		t.Fatalf("empty context must carry no request id")
	}
}
