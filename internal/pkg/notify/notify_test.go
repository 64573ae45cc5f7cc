package notify

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsole(&buf)

	n.Success("User lisi created")
	n.Error("duplicate email")

	out := buf.String()
	if !strings.Contains(out, "User lisi created") {
		t.Fatalf("success message missing from output: %q", out)
	}
	if !strings.Contains(out, "duplicate email") {
		t.Fatalf("error message missing from output: %q", out)
	}
	if strings.Index(out, "User lisi created") > strings.Index(out, "duplicate email") {
		t.Fatalf("messages out of order: %q", out)
	}
}

func TestNoopNotifier(t *testing.T) {
	// 仅验证空实现满足接口且不恐慌
	var n Notifier = Noop{}
	n.Success("ignored")
	n.Error("ignored")
}

func TestLogNotifierImplementsInterface(t *testing.T) {
	var n Notifier = Log{}
	n.Success("User created")
	n.Error("Failed to create user")
}
