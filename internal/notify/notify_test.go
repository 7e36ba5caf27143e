package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Success("login successful")
	c.Warn("careful")
	c.Error("insufficient permission")

	assert.Equal(t, "✔ login successful\n! careful\n✖ insufficient permission\n", buf.String())
}

func TestLoggerNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := NewLogger(zap.New(core))
	n.Success("ok")
	n.Error("bad")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "ok", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "bad", entries[1].Message)
	}
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, b, Nop{}}
	m.Success("s")
	m.Warn("w")
	m.Error("e")

	for _, r := range []*Recorder{a, b} {
		assert.Equal(t, []Entry{
			{Level: LevelSuccess, Message: "s"},
			{Level: LevelWarn, Message: "w"},
			{Level: LevelError, Message: "e"},
		}, r.Entries())
		assert.Equal(t, []string{"e"}, r.Errors())
		assert.Equal(t, []string{"s"}, r.Successes())
	}

	a.Reset()
	assert.Empty(t, a.Entries())
}
