package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/userdir-go/internal/cli/config"
	"github.com/yndnr/userdir-go/internal/cli/connection"
	"github.com/yndnr/userdir-go/internal/cli/output"
)

type loginResult struct {
	Token     string    `json:"token" yaml:"token" table:"-"`
	SessionID string    `json:"session_id" yaml:"session_id"`
	Identity  string    `json:"identity" yaml:"identity"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Open a session and store its token",
		ArgsUsage: "USERNAME",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-save",
				Usage: "print the token instead of saving it to the config file",
			},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: login USERNAME")
	}
	username := c.Args().First()

	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Post(ctx, "/login", map[string]string{"username": username})
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var result loginResult
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if !c.Bool("no-save") {
		cfg := loadedConfig(c)
		saved := *cfg
		saved.Token = result.Token
		saved.Identity = result.Identity
		saved.Server = flags.Server
		if saved.Server == "" {
			saved.Server = config.DefaultServer
		}
		if err := config.Save(&saved, loadedConfigPath(c)); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		*cfg = saved
	}

	if flags.Output != output.FormatTable {
		return render(c, flags.Output, result)
	}

	fmt.Fprintf(stdout(c), "Logged in as %s (session %s)\n", result.Identity, result.SessionID)
	if c.Bool("no-save") {
		fmt.Fprintf(stdout(c), "Token: %s\n", result.Token)
	}
	return nil
}
