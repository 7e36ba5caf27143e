package main

import (
	cmd "github.com/vera-byte/vgo-pushctl/cmd"
	vgokit "github.com/vera-byte/vgo-kit"
	"go.uber.org/zap"
)

// main pushctl 命令行主入口
func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		vgokit.Log.Fatal("Failed to execute command", zap.Error(err))
	}
}
