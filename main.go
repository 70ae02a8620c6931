package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/InioX/matugen-sub000/cli"
	"github.com/InioX/matugen-sub000/cli/cmd"
	"github.com/InioX/matugen-sub000/log"
)

func main() {
	err := cli.Run(context.Background(), cmd.OSEnv(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
