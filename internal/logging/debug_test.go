package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := SetOutput(buf)
	t.Cleanup(func() { SetOutput(prev) })
	return buf
}

func TestDebugEnabled(t *testing.T) {
	// Test with TS_DEBUG not set
	os.Unsetenv("TS_DEBUG")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TS_DEBUG is not set")
	}

	// Test with TS_DEBUG set to empty string
	t.Setenv("TS_DEBUG", "")
	if DebugEnabled() {
		t.Error("DebugEnabled() should return false when TS_DEBUG is empty")
	}

	t.Setenv("TS_DEBUG", "1")
	if !DebugEnabled() {
		t.Error("DebugEnabled() should return true when TS_DEBUG is set")
	}
}

func TestDebugf(t *testing.T) {
	buf := captureOutput(t)

	t.Setenv("TS_DEBUG", "")
	Debugf("hidden %s", "message")
	assert.Empty(t, buf.String())

	t.Setenv("TS_DEBUG", "1")
	Debugf("logical date %s", "2025-03-14")
	assert.Equal(t, "debug: logical date 2025-03-14\n", buf.String())
}

func TestDebugln(t *testing.T) {
	buf := captureOutput(t)

	t.Setenv("TS_DEBUG", "1")
	Debugln("replaying", 3, "stamps")
	assert.Equal(t, "debug: replaying 3 stamps\n", buf.String())
}

func TestWarnfAndErrorfAlwaysPrint(t *testing.T) {
	buf := captureOutput(t)
	t.Setenv("TS_DEBUG", "")

	Warnf("dropping stamp %s", "abc")
	Errorf("stamp failed: %v\n", "boom")

	assert.Equal(t, "warning: dropping stamp abc\nerror: stamp failed: boom\n", buf.String())
}
