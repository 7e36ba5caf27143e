package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 命令注解
const (
	// annotationRoute 命令对应的页面路径，执行前经过路由守卫
	annotationRoute = "route"
	// annotationStandalone 不需要会话的命令
	annotationStandalone = "standalone"
)

type rootOptions struct {
	configFile string
	server     string
	output     string
	verbose    bool
}

var rootOpts rootOptions

// RootCmd 根命令
var RootCmd = &cobra.Command{
	Use:   "pushctl",
	Short: "HisMsg push administration client",
	Long: `pushctl manages a HisMsg message push service: log in, manage push
channels and tag routing, browse message records and maintain dictionaries.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&rootOpts.configFile, "config", "c", "", "config file (default ./config/config.yaml)")
	flags.StringVar(&rootOpts.server, "server", "", "backend base URL, overrides server.base_url")
	flags.StringVarP(&rootOpts.output, "output", "o", "", "output format: table or json")
	flags.BoolVarP(&rootOpts.verbose, "verbose", "v", false, "enable debug logging")
}

// routed 给命令标注页面路径
func routed(cmd *cobra.Command, path string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationRoute] = path
	return cmd
}

// setup 组装应用、恢复会话并导航到命令对应的页面
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, &rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	cmd.SetContext(withApp(ctx, a))

	if err := a.Session.Restore(ctx); err != nil {
		a.Logger.Warn("failed to restore session", zap.Error(err))
	}

	route, ok := cmd.Annotations[annotationRoute]
	if !ok {
		return nil
	}
	return a.enter(ctx, route)
}

func teardown(cmd *cobra.Command, args []string) error {
	if a, err := appFrom(cmd.Context()); err == nil {
		a.Close()
	}
	return nil
}

// routedTree 给命令及其全部子命令标注页面路径
func routedTree(cmd *cobra.Command, path string) *cobra.Command {
	routed(cmd, path)
	for _, child := range cmd.Commands() {
		routedTree(child, path)
	}
	return cmd
}
