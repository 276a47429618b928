// bacilogs is the terminal client for the two Bacılogs blogs: reading,
// authoring and following posts live.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"

	"github.com/bacilogs/bacilogs/frontend/internal/setup"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/logger"
)

const version = "0.3.0"

const usage = `Bacılogs.

Usage:
    bacilogs [--config=<path>] home
    bacilogs [--config=<path>] blog <category>
    bacilogs [--config=<path>] show <id> [--html]
    bacilogs [--config=<path>] create <category> --title=<title> --file=<path> [--image=<image>] [--markdown]
    bacilogs [--config=<path>] edit <id> [--title=<title>] [--file=<path>] [--image=<image>] [--markdown]
    bacilogs [--config=<path>] delete <id> [--yes]
    bacilogs [--config=<path>] login [<username>] [--next=<next>]
    bacilogs [--config=<path>] signup [<email>]
    bacilogs [--config=<path>] logout
    bacilogs [--config=<path>] whoami
    bacilogs [--config=<path>] dashboard
    bacilogs [--config=<path>] theme [light | dark | toggle]
    bacilogs [--config=<path>] watch
    bacilogs -h | --help
    bacilogs --version

Options:
    -h --help          Show this screen.
    --version          Show version.
    --config=<path>    Client config file [default: frontend/config/client.yaml].
    --title=<title>    Post title.
    --file=<path>      Post body; "-" reads stdin.
    --image=<image>    Title image: a file path or an http(s) URL.
    --markdown         Treat the body as Markdown (implied for .md files).
    --html             Print the post body as stored instead of plain text.
    --yes              Delete without asking.
    --next=<next>      Page to land on after logging in.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	configPath, _ := opts.String("--config")
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Initialize(cfg.LogLevel, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.SetupDependencies(ctx, cfg)
	if err != nil {
		logger.Log.Error("failed to initialize client", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	app := &cli{deps: deps, h: deps.Handler, out: os.Stdout}
	if err := app.load(ctx); err != nil {
		// a stale list is still worth showing
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	if err := app.run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		deps.Close()
		os.Exit(1)
	}
}
