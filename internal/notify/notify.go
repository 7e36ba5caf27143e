// Package notify 面向操作员的提示信息输出。
package notify

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Level 提示级别
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

// Notifier 提示输出接口
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// Console 将提示写到终端
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole 创建终端提示器
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Success(msg string) { c.write("✔", msg) }
func (c *Console) Warn(msg string)    { c.write("!", msg) }
func (c *Console) Error(msg string)   { c.write("✖", msg) }

func (c *Console) write(mark, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", mark, msg)
}

// Logger 将提示写入zap日志
type Logger struct {
	logger *zap.Logger
}

// NewLogger 创建日志提示器
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger.With(zap.String("component", "notify"))}
}

func (l *Logger) Success(msg string) { l.logger.Info(msg, zap.String("level", string(LevelSuccess))) }
func (l *Logger) Warn(msg string)    { l.logger.Warn(msg) }
func (l *Logger) Error(msg string)   { l.logger.Error(msg) }

// Multi 同时输出到多个提示器
type Multi []Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Warn(msg string) {
	for _, n := range m {
		n.Warn(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

// Nop 丢弃所有提示
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Warn(string)    {}
func (Nop) Error(string)   {}
