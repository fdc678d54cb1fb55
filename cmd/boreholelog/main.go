// Command boreholelog renders borehole logs as paged sheets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/boreholelog/internal/cli"
	"github.com/matzehuels/boreholelog/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	stop()

	code := cli.ExitCode(err)
	if code != cli.ExitOK && code != cli.ExitInterrupt && !cli.Reported(err) {
		c.Logger.Error(errors.UserMessage(err))
	}
	os.Exit(code)
}
