package config

// DefaultServer is the server address used when neither the flag, the
// environment nor the file names one.
const DefaultServer = "http://127.0.0.1:5080"

// CLIConfig is the configuration for userdir-cli.
type CLIConfig struct {
	Server string `yaml:"server"`
	Output string `yaml:"output"` // table, json, yaml

	// Token and Identity are written by "login".
	Token    string `yaml:"token,omitempty"`
	Identity string `yaml:"identity,omitempty"`

	// CAFile adds a PEM bundle to the system roots for https servers.
	CAFile   string `yaml:"ca_file,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server: DefaultServer,
		Output: "table",
	}
}

// HasSession reports whether a token from a previous login is stored.
func (c *CLIConfig) HasSession() bool {
	return c.Token != ""
}
