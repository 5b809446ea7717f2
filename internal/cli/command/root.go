package command

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/userdir-go/internal/cli/config"
	"github.com/yndnr/userdir-go/internal/cli/connection"
	"github.com/yndnr/userdir-go/internal/cli/output"
	"github.com/yndnr/userdir-go/internal/infra/buildinfo"
	"github.com/yndnr/userdir-go/internal/infra/tlsroots"
)

const (
	metaConfig     = "config"
	metaConfigPath = "configPath"

	requestTimeout = 30 * time.Second
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:     "userdir-cli",
		Usage:    "Manage a userdir directory from the command line",
		Version:  buildinfo.String(),
		Flags:    globalFlags(),
		Metadata: map[string]any{},
		Commands: []*cli.Command{
			LoginCommand(),
			UserCommand(),
			SystemCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Before: func(c *cli.Context) error {
			path := c.String("config")
			if path == "" {
				path = config.DefaultConfigPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			c.App.Metadata[metaConfig] = cfg
			c.App.Metadata[metaConfigPath] = path
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address (default from config, else " + config.DefaultServer + ")",
			EnvVars: []string{"USERDIR_SERVER"},
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "session token (default from config after login)",
			EnvVars: []string{"USERDIR_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			EnvVars: []string{"USERDIR_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"USERDIR_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "PEM bundle trusted in addition to the system roots",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "skip TLS certificate verification",
		},
	}
}

// GlobalFlags are the effective global settings after merging flags,
// environment and the config file.
type GlobalFlags struct {
	Server   string
	Token    string
	Output   output.Format
	CAFile   string
	Insecure bool
}

// ParseGlobalFlags merges the global flags over the loaded config.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg := loadedConfig(c)

	flags := &GlobalFlags{
		Server:   cfg.Server,
		Token:    cfg.Token,
		CAFile:   cfg.CAFile,
		Insecure: cfg.Insecure,
	}
	if v := c.String("server"); v != "" {
		flags.Server = v
	}
	if v := c.String("token"); v != "" {
		flags.Token = v
	}
	if v := c.String("ca-file"); v != "" {
		flags.CAFile = v
	}
	if c.Bool("insecure") {
		flags.Insecure = true
	}

	out := cfg.Output
	if v := c.String("output"); v != "" {
		out = v
	}
	format, err := output.ParseFormat(out)
	if err != nil {
		return nil, err
	}
	flags.Output = format
	return flags, nil
}

func loadedConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

func loadedConfigPath(c *cli.Context) string {
	if p, ok := c.App.Metadata[metaConfigPath].(string); ok {
		return p
	}
	return config.DefaultConfigPath()
}

// NewClient builds the HTTP client for the effective settings.
func NewClient(c *cli.Context) (*connection.HTTPClient, *GlobalFlags, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}

	var tlsConfig *tls.Config
	if flags.CAFile != "" || flags.Insecure {
		tlsConfig, err = tlsroots.ClientConfig(flags.CAFile, flags.Insecure)
		if err != nil {
			return nil, nil, err
		}
	}

	return connection.NewHTTPClient(flags.Server, flags.Token, tlsConfig), flags, nil
}

// requireSession fails early when no token is configured.
func requireSession(client *connection.HTTPClient) error {
	if !client.HasToken() {
		return fmt.Errorf("not logged in: run 'userdir-cli login USERNAME' first")
	}
	return nil
}

// sessionHint adds a login hint to 401 errors.
func sessionHint(err error) error {
	if connection.IsUnauthenticated(err) {
		return fmt.Errorf("%w (log in again with 'userdir-cli login USERNAME')", err)
	}
	return err
}

func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, requestTimeout)
}

func render(c *cli.Context, format output.Format, data any) error {
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

func stdout(c *cli.Context) io.Writer {
	return c.App.Writer
}
