package command

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/userdir-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive mode; each line runs as a userdir-cli command",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "history location (empty string disables persistence)",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: shell,
	}
}

func shell(c *cli.Context) error {
	// Flags given to the shell invocation are replayed on every line. The
	// token is only replayed when set explicitly so that "login" inside the
	// shell takes effect for the following lines.
	base := []string{c.App.Name, "--config", loadedConfigPath(c)}
	for _, name := range []string{"server", "token", "output", "ca-file"} {
		if c.IsSet(name) {
			base = append(base, "--"+name, c.String(name))
		}
	}
	if c.Bool("insecure") {
		base = append(base, "--insecure")
	}

	exec := func(ctx context.Context, args []string) error {
		if len(args) > 0 && args[0] == "shell" {
			return nil
		}
		app := App()
		app.Writer = c.App.Writer
		app.ErrWriter = c.App.ErrWriter
		app.ExitErrHandler = func(*cli.Context, error) {}
		return app.RunContext(ctx, append(append([]string{}, base...), args...))
	}

	r := repl.New(exec,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(repl.NewHistory(c.String("history-file"), repl.DefaultHistorySize)))
	return r.Run(c.Context)
}
