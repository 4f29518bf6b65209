package main

import (
	"context"
	"errors"
	"os"

	"lockbox/internal/cli"
	"lockbox/internal/core"
	"lockbox/pkg/logger"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	lg := logger.New()

	root := cli.New(buildVersion())
	if err := root.ExecuteContext(context.Background()); err != nil {
		// Единственная точка выхода: диспетчер уже напечатал сообщение.
		var exit core.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		lg.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func buildVersion() string {
	v := version
	if commit != "" {
		v += " (" + commit + ")"
	}
	if date != "" {
		v += " " + date
	}
	return v
}
