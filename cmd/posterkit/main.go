// Command posterkit renders event posters, serves the poster web form and
// batch-converts slide decks to PNG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/matzehuels/posterkit/internal/cli"
	perrors "github.com/matzehuels/posterkit/pkg/errors"
)

// exitInterrupted follows the shell convention for SIGINT.
const exitInterrupted = 130

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(report(os.Stderr, err))
}

// report prints err for the user and returns the process exit code.
func report(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	}
	fmt.Fprintln(w, "Error:", err)
	if hint := perrors.Hint(err); hint != "" {
		fmt.Fprintln(w, hint)
	}
	return 1
}
