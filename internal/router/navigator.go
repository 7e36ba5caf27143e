package router

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNavigationSuperseded 导航在完成前被新的导航取代
var ErrNavigationSuperseded = errors.New("navigation superseded by a newer navigation")

// maxRedirects 单次导航允许的最大重定向次数
const maxRedirects = 5

// Progress 导航进度指示
type Progress interface {
	Start(path string)
	Done(path string)
}

// Navigation 一次导航的结果
type Navigation struct {
	// Requested 请求的路径
	Requested string
	// Location 最终到达的完整路径
	Location string
	Route    Route
	Title    string
	// Redirects 途经的重定向判断
	Redirects []Decision
}

// Redirected 是否发生过重定向
func (n *Navigation) Redirected() bool {
	return len(n.Redirects) > 0
}

// FirstReason 第一次重定向的原因
func (n *Navigation) FirstReason() Reason {
	if len(n.Redirects) == 0 {
		return ReasonNone
	}
	return n.Redirects[0].Reason
}

// Navigator 执行导航：每次导航都经过守卫，新的导航会取消仍在进行中的旧导航
type Navigator struct {
	guard    *Guard
	progress Progress
	logger   *zap.Logger

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current *Navigation
}

// NewNavigator 创建导航器
func NewNavigator(guard *Guard, progress Progress, logger *zap.Logger) *Navigator {
	if progress == nil {
		progress = NopProgress{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{
		guard:    guard,
		progress: progress,
		logger:   logger.With(zap.String("component", "navigator")),
	}
}

// Navigate 导航到 fullPath，跟随守卫给出的重定向
func (n *Navigator) Navigate(ctx context.Context, fullPath string) (*Navigation, error) {
	navCtx, seq := n.begin(ctx)

	n.progress.Start(fullPath)
	defer n.progress.Done(fullPath)

	nav := &Navigation{Requested: fullPath}
	target := fullPath
	for i := 0; ; i++ {
		if err := n.interrupted(navCtx, ctx); err != nil {
			return nil, err
		}
		if i > maxRedirects {
			return nil, fmt.Errorf("too many redirects navigating to %s", fullPath)
		}

		d := n.guard.Check(target)
		if d.Action == Redirect {
			n.logger.Debug("navigation redirected",
				zap.String("from", d.FullPath),
				zap.String("to", d.Location),
				zap.String("reason", string(d.Reason)))
			nav.Redirects = append(nav.Redirects, d)
			target = d.Location
			continue
		}

		nav.Location = d.FullPath
		nav.Route = d.Route
		nav.Title = d.Title
		break
	}

	if !n.commit(seq, nav) {
		return nil, ErrNavigationSuperseded
	}
	return nav, nil
}

// Redirect 强制跳转，不经过守卫（用于令牌失效）
func (n *Navigator) Redirect(fullPath string) {
	route, resolved := n.guard.Table().Resolve(fullPath)
	_, seq := n.begin(context.Background())
	n.commit(seq, &Navigation{
		Requested: fullPath,
		Location:  resolved,
		Route:     route,
		Title:     Title(route),
	})
	n.logger.Info("forced navigation", zap.String("location", resolved))
}

// Current 当前所在位置，尚未导航时为nil
func (n *Navigator) Current() *Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	c := *n.current
	return &c
}

// begin 开始一次新导航并取消上一次
func (n *Navigator) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancel != nil {
		n.cancel()
	}
	n.seq++
	n.cancel = cancel
	return ctx, n.seq
}

// commit 仅当 seq 仍是最新导航时记录结果
func (n *Navigator) commit(seq uint64, nav *Navigation) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if seq != n.seq {
		return false
	}
	n.current = nav
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	return true
}

func (n *Navigator) interrupted(navCtx, parent context.Context) error {
	if navCtx.Err() == nil {
		return nil
	}
	if err := parent.Err(); err != nil {
		return err
	}
	return ErrNavigationSuperseded
}

// NopProgress 不显示进度
type NopProgress struct{}

func (NopProgress) Start(string) {}
func (NopProgress) Done(string)  {}

// LogProgress 把导航耗时写入日志
type LogProgress struct {
	logger *zap.Logger

	mu      sync.Mutex
	started map[string]time.Time
}

// NewLogProgress 创建日志进度指示
func NewLogProgress(logger *zap.Logger) *LogProgress {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogProgress{logger: logger, started: make(map[string]time.Time)}
}

func (p *LogProgress) Start(path string) {
	p.mu.Lock()
	p.started[path] = time.Now()
	p.mu.Unlock()
	p.logger.Debug("navigation started", zap.String("path", path))
}

func (p *LogProgress) Done(path string) {
	p.mu.Lock()
	started, ok := p.started[path]
	delete(p.started, path)
	p.mu.Unlock()

	fields := []zap.Field{zap.String("path", path)}
	if ok {
		fields = append(fields, zap.Duration("elapsed", time.Since(started)))
	}
	p.logger.Debug("navigation finished", fields...)
}
