package command

import (
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/filedrop/internal/cli/config"
	"github.com/yndnr/filedrop/internal/cli/connection"
	"github.com/yndnr/filedrop/internal/cli/output"
	"github.com/yndnr/filedrop/internal/infra/buildinfo"
	"github.com/yndnr/filedrop/internal/infra/tlsroots"
)

// DefaultServer is used when neither --server nor FILEDROP_SERVER is set.
const DefaultServer = "http://localhost:8000"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "filedrop-cli",
		Usage:   "Share files through a FileDrop server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			UploadCommand(),
			DownloadCommand(),
			StatusCommand(),
			HealthCommand(),
		},
		Before: applyConfigFile,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI defaults file (default: <user config dir>/filedrop/cli.yaml)",
			EnvVars: []string{"FILEDROP_CLI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "FileDrop server URL",
			EnvVars: []string{"FILEDROP_SERVER"},
			Value:   DefaultServer,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM file with an extra CA to trust for https servers",
			EnvVars: []string{"FILEDROP_CA_FILE"},
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip TLS certificate verification",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Overall request timeout (0 means none)",
		},
	}
}

// applyConfigFile fills global flags the user did not set from the CLI
// defaults file, then validates the output format.
func applyConfigFile(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	for name, value := range cfg.FlagValues() {
		if c.IsSet(name) {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return fmt.Errorf("cli config %s: %w", name, err)
		}
	}

	_, err = output.ParseFormat(c.String("output"))
	return err
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server   string
	Output   output.Format
	CAFile   string
	Insecure bool
	Timeout  time.Duration
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		format = output.FormatTable
	}
	return &GlobalFlags{
		Server:   c.String("server"),
		Output:   format,
		CAFile:   c.String("ca-file"),
		Insecure: c.Bool("insecure"),
		Timeout:  c.Duration("timeout"),
	}
}

// newClient builds the HTTP client from the global flags.
func newClient(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)

	tlsCfg, err := tlsroots.ClientConfig(flags.CAFile, flags.Insecure)
	if err != nil {
		return nil, err
	}
	return connection.NewHTTPClient(flags.Server, tlsCfg, flags.Timeout), nil
}

// render writes data to stdout in the selected format.
func render(c *cli.Context, data any) error {
	return output.NewFormatter(ParseGlobalFlags(c).Output).Format(stdout(c), data)
}

func stdout(c *cli.Context) io.Writer {
	return c.App.Writer
}

func stderr(c *cli.Context) io.Writer {
	return c.App.ErrWriter
}

// exactArgs checks the positional argument count.
func exactArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return fmt.Errorf("usage: %s %s", c.Command.FullName(), usage)
	}
	return nil
}
