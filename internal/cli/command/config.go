package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/userdir-go/internal/cli/config"
	"github.com/yndnr/userdir-go/internal/telemetry/logger"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI local configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective CLI configuration",
				Action: configShow,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session token",
				Action: configLogout,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	view := struct {
		File     string `json:"file" yaml:"file"`
		Server   string `json:"server" yaml:"server"`
		Output   string `json:"output" yaml:"output"`
		Identity string `json:"identity" yaml:"identity"`
		Token    string `json:"token" yaml:"token"`
		CAFile   string `json:"ca_file" yaml:"ca_file"`
		Insecure bool   `json:"insecure" yaml:"insecure"`
	}{
		File:     loadedConfigPath(c),
		Server:   flags.Server,
		Output:   string(flags.Output),
		Identity: loadedConfig(c).Identity,
		Token:    maskToken(flags.Token),
		CAFile:   flags.CAFile,
		Insecure: flags.Insecure,
	}
	return render(c, flags.Output, view)
}

func configLogout(c *cli.Context) error {
	cfg := *loadedConfig(c)
	if !cfg.HasSession() {
		fmt.Fprintln(stdout(c), "No stored session.")
		return nil
	}
	cfg.Token = ""
	cfg.Identity = ""
	if err := config.Save(&cfg, loadedConfigPath(c)); err != nil {
		return err
	}
	*loadedConfig(c) = cfg
	fmt.Fprintln(stdout(c), "Session token removed.")
	return nil
}

// maskToken hides all but the edges of a udtk_ token and all of anything
// else.
func maskToken(tok string) string {
	if tok == "" {
		return ""
	}
	if masked := logger.RedactString(tok); masked != tok {
		return masked
	}
	return "***"
}
