package command

import (
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/userdir-go/internal/cli/connection"
	"github.com/yndnr/userdir-go/internal/cli/output"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server status",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "status",
				Usage:  "Show readiness and the user count",
				Action: systemStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the identity and session behind the saved token",
				Action: systemWhoami,
			},
			{
				Name:      "greet",
				Usage:     "Ask the server to greet NAME",
				ArgsUsage: "NAME",
				Action:    systemGreet,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	var result struct {
		Status string `json:"status" yaml:"status"`
		Time   string `json:"time" yaml:"time"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if flags.Output != output.FormatTable {
		return render(c, flags.Output, result)
	}
	if result.Status != "healthy" {
		return fmt.Errorf("server unhealthy: %s", result.Status)
	}
	fmt.Fprintf(stdout(c), "Server is healthy\n  Target: %s\n", client.BaseURL())
	return nil
}

func systemStatus(c *cli.Context) error {
	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/ready")
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	var result map[string]any
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	result["server"] = client.BaseURL()
	if id := loadedConfig(c).Identity; id != "" && client.HasToken() {
		result["identity"] = id
	}
	return render(c, flags.Output, result)
}

func systemWhoami(c *cli.Context) error {
	client, flags, err := NewClient(c)
	if err != nil {
		return err
	}
	if err := requireSession(client); err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/session")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	var result struct {
		Identity         string    `json:"identity" yaml:"identity"`
		SessionID        string    `json:"session_id" yaml:"session_id"`
		CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
		IdentitySessions int       `json:"identity_sessions" yaml:"identity_sessions"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return sessionHint(err)
	}

	if flags.Output != output.FormatTable {
		return render(c, flags.Output, result)
	}
	fmt.Fprintf(stdout(c), "%s (session %s, %d active for this identity)\n",
		result.Identity, result.SessionID, result.IdentitySessions)
	return nil
}

func systemGreet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: system greet NAME")
	}
	client, _, err := NewClient(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := client.Get(ctx, "/greet?name="+url.QueryEscape(c.Args().First()))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	text, err := connection.ReadText(resp)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(c), text)
	return nil
}
