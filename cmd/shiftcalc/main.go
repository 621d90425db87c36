package main

import (
	"fmt"
	"os"

	"timesheet.service/internal/cli"
	"timesheet.service/internal/config"
	"timesheet.service/internal/core"
	"timesheet.service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.IsLocalDev)

	policy, err := core.NewOvertimePolicy(cfg.ShiftLength, cfg.RegularBreak, cfg.OvertimeThresholdHours, cfg.UndertimeEnabled)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid overtime policy: %v\n", err)
		os.Exit(1)
	}

	if err := cli.NewApp(policy).Execute(); err != nil {
		os.Exit(1)
	}
}
