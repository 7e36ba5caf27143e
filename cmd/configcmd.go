package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vera-byte/vgo-pushctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationStandalone: "true"},
	RunE:        runConfig,
}

func init() {
	RootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&rootOpts)
	if err != nil {
		return err
	}

	cred := cfg.Credential
	pairs := [][2]string{
		{"server.base_url", cfg.Server.BaseURL},
		{"server.api_prefix", cfg.Server.APIPrefix},
		{"server.endpoint", cfg.Server.Endpoint()},
		{"server.timeout", cfg.Timeout().String()},
		{"credential.type", cred.Type},
	}
	switch cred.Type {
	case "redis":
		pairs = append(pairs,
			[2]string{"credential.redis_addr", cred.RedisAddr},
			[2]string{"credential.redis_db", itoa(int64(cred.RedisDB))},
			[2]string{"credential.prefix", cred.Prefix})
	case "", "file":
		pairs = append(pairs, [2]string{"credential.path", cred.Path})
	}
	pairs = append(pairs,
		[2]string{"log.level", cfg.Log.Level},
		[2]string{"log.format", cfg.Log.Format},
		[2]string{"mock.addr", cfg.Mock.Addr()},
		[2]string{"mock.rate_limit", rateLimitSummary(cfg.Mock.RateLimit)},
		[2]string{"output", cfg.Output})

	// 不输出 redis 密码
	shown := *cfg
	shown.Credential.RedisPass = ""
	shown.Mock.RateLimit.RedisPass = ""
	return NewPrinter(cmd.OutOrStdout(), cfg.Output).Fields(shown, pairs)
}

func rateLimitSummary(rl config.RateLimitConfig) string {
	if !rl.Enabled {
		return "off"
	}
	return fmt.Sprintf("%d per %s (%s)", rl.Limit, rl.Window, rl.Type)
}
