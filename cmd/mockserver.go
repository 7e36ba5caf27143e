package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/mockserver"
	"go.uber.org/zap"
)

var mockOpts struct {
	host string
	port string
}

var mockServerCmd = &cobra.Command{
	Use:         "mock-server",
	Short:       "Run an in-memory push administration backend for local use",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runMockServer,
}

func init() {
	mockServerCmd.Flags().StringVar(&mockOpts.host, "host", "", "listen host, overrides mock.host")
	mockServerCmd.Flags().StringVar(&mockOpts.port, "port", "", "listen port, overrides mock.port")
	RootCmd.AddCommand(mockServerCmd)
}

// runMockServer 启动模拟后端，收到中断信号后优雅关闭
func runMockServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&rootOpts)
	if err != nil {
		return err
	}
	if mockOpts.host != "" {
		cfg.Mock.Host = mockOpts.host
	}
	if mockOpts.port != "" {
		cfg.Mock.Port = mockOpts.port
	}

	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Sync()

	store := mockserver.NewStore()
	if err := mockserver.Seed(store); err != nil {
		return fmt.Errorf("failed to seed mock data: %w", err)
	}

	srv, err := mockserver.New(cfg.Mock, store, logger)
	if err != nil {
		return err
	}

	printMockInfo(cmd, srv)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Mock server ready", zap.String("addr", cfg.Mock.Addr()))
	return srv.Run(ctx)
}

// printMockInfo 输出模块、路由和种子账号
func printMockInfo(cmd *cobra.Command, srv *mockserver.Server) {
	p := NewPrinter(cmd.OutOrStdout(), OutputTable)
	out := cmd.OutOrStdout()

	modules := srv.Modules()
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		rows = append(rows, []string{m.Name(), m.Description()})
	}
	fmt.Fprintln(out, "\nModules:")
	p.Table([]string{"Name", "Description"}, rows)

	routes := srv.Routes()
	rows = make([][]string, 0, len(routes))
	for _, r := range routes {
		rows = append(rows, []string{r.Method, r.Path, r.Handler})
	}
	fmt.Fprintln(out, "\nRoute Details:")
	p.Table([]string{"Method", "Path", "Handler"}, rows)

	fmt.Fprintln(out, "\nAccounts:")
	p.Table([]string{"Username", "Password", "Roles"}, [][]string{
		{mockserver.AdminUsername, mockserver.AdminPassword, "admin"},
		{mockserver.OperatorUsername, mockserver.OperatorPassword, "user"},
	})
}
