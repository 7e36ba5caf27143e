package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vera-byte/vgo-pushctl/internal/config"
	"github.com/vera-byte/vgo-pushctl/internal/credential"
	"github.com/vera-byte/vgo-pushctl/internal/notify"
	"github.com/vera-byte/vgo-pushctl/internal/router"
	"github.com/vera-byte/vgo-pushctl/internal/session"
	"github.com/vera-byte/vgo-pushctl/pkg/client"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 导航被守卫拦截时返回的错误
var (
	ErrLoginRequired   = errors.New(`not logged in, run "pushctl login" first`)
	ErrAdminOnly       = errors.New("this command requires the admin role")
	ErrAlreadyLoggedIn = errors.New(`already logged in, run "pushctl logout" first`)
)

// App 一次命令执行所需的全部组件
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Notifier    notify.Notifier
	Credentials credential.Store
	Client      *client.Client
	Session     *session.Store
	Navigator   *router.Navigator
	Printer     *Printer
}

// newApp 组装配置、日志、凭据存储、客户端、会话和导航器
// 参数: ctx 上下文, opts 命令行选项, out 标准输出, errOut 提示输出
// 返回值: *App 组件集合, error 错误信息
func newApp(ctx context.Context, opts *rootOptions, out, errOut io.Writer) (*App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log, errOut)
	if err != nil {
		return nil, err
	}

	var notifier notify.Notifier = notify.NewConsole(errOut)
	if cfg.Log.Format == "json" {
		notifier = notify.Multi{notifier, notify.NewLogger(logger)}
	}

	creds, err := credential.NewStore(cfg.Credential, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}

	api := client.New(cfg.Server, creds,
		client.WithNotifier(notifier),
		client.WithLogger(logger))

	sess := session.New(ctx, api, creds,
		session.WithQuietAPI(api.Quiet()),
		session.WithNotifier(notifier),
		session.WithLogger(logger))

	guard := router.NewGuard(router.DefaultTable(), sess, notifier)
	nav := router.NewNavigator(guard, router.NewLogProgress(logger), logger)

	// 令牌失效：清空会话并跳转登录页
	api.SetUnauthorizedHandler(func(ctx context.Context) {
		sess.Expire(ctx)
		nav.Redirect(router.PathLogin)
	})

	return &App{
		Config:      cfg,
		Logger:      logger,
		Notifier:    notifier,
		Credentials: creds,
		Client:      api,
		Session:     sess,
		Navigator:   nav,
		Printer:     NewPrinter(out, cfg.Output),
	}, nil
}

// loadConfig 加载配置并应用命令行覆盖
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.server != "" {
		cfg.Server.BaseURL = opts.server
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	switch cfg.Output {
	case OutputTable, OutputJSON:
	default:
		return nil, fmt.Errorf("unsupported output format %q (table or json)", cfg.Output)
	}
	return cfg, nil
}

// newLogger 按配置创建日志器，日志写到 errOut
func newLogger(cfg config.LogConfig, errOut io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(errOut), level)
	return zap.New(core), nil
}

// enter 导航到命令对应的页面，被重定向时返回原因
func (a *App) enter(ctx context.Context, path string) error {
	nav, err := a.Navigator.Navigate(ctx, path)
	if err != nil {
		return err
	}
	if !nav.Redirected() {
		a.Logger.Debug("entered", zap.String("title", nav.Title), zap.String("location", nav.Location))
		return nil
	}

	switch nav.FirstReason() {
	case router.ReasonLoginRequired:
		return ErrLoginRequired
	case router.ReasonAdminOnly:
		return ErrAdminOnly
	case router.ReasonAlreadyLogged:
		if u := a.Session.CurrentUser(); u != nil {
			return fmt.Errorf("%w (current user: %s)", ErrAlreadyLoggedIn, u.Username)
		}
		return ErrAlreadyLoggedIn
	default:
		return fmt.Errorf("navigation to %s redirected to %s", path, nav.Location)
	}
}

// Close 释放组件
func (a *App) Close() {
	if closer, ok := a.Credentials.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.Logger.Warn("failed to close credential store", zap.Error(err))
		}
	}
	_ = a.Logger.Sync()
}

type appKey struct{}

func withApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

func appFrom(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(appKey{}).(*App)
	if !ok {
		return nil, errors.New("application is not initialised")
	}
	return a, nil
}
