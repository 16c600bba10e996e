package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/cli/config"
	"github.com/yndnr/authline/internal/cli/output"
	"github.com/yndnr/authline/internal/client"
	"github.com/yndnr/authline/internal/infra/buildinfo"
)

// Defaults for the global flags.
const (
	DefaultServer = "localhost:8219"
	DefaultToken  = "TOKEN"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "authline-cli",
		Usage:   "Talk to an authline server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Before:  applySettings,
		Commands: []*cli.Command{
			PingCommand(),
			SendCommand(),
			REPLCommand(),
			HashTokenCommand(),
			GenerateTokenCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "settings file",
			EnvVars: []string{"AUTHLINE_CLI_CONFIG"},
			Value:   config.DefaultPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "server address (host:port)",
			EnvVars: []string{"AUTHLINE_CLI_SERVER"},
			Value:   DefaultServer,
		},
		&cli.StringFlag{
			Name:    "token",
			Aliases: []string{"t"},
			Usage:   "authentication token",
			EnvVars: []string{"AUTH_TOKEN"},
			Value:   DefaultToken,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml",
			Value:   string(output.FormatText),
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for connecting and for each reply",
			Value: client.DefaultTimeout,
		},
	}
}

// applySettings fills global flags that were not given on the command
// line or through their environment variables from the settings file.
func applySettings(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	values := map[string]string{
		"server": cfg.Server,
		"token":  cfg.Token,
		"output": cfg.Output,
	}
	if cfg.Timeout > 0 {
		values["timeout"] = cfg.Timeout.String()
	}
	for name, v := range values {
		if v == "" || c.IsSet(name) {
			continue
		}
		if err := c.Set(name, v); err != nil {
			return fmt.Errorf("settings file %s: %w", name, err)
		}
	}
	return nil
}

// GlobalFlags holds the parsed global flags.
type GlobalFlags struct {
	Server  string
	Token   string
	Output  output.Format
	Timeout time.Duration
}

// ParseGlobalFlags extracts and validates the global flags.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	return &GlobalFlags{
		Server:  c.String("server"),
		Token:   c.String("token"),
		Output:  format,
		Timeout: c.Duration("timeout"),
	}, nil
}

// connect dials the server and authenticates.
func connect(c *cli.Context, flags *GlobalFlags) (*client.Client, error) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	cl, err := client.Dial(ctx, flags.Server, client.WithTimeout(flags.Timeout))
	if err != nil {
		return nil, err
	}
	if err := cl.Authenticate(flags.Token); err != nil {
		cl.Close()
		if errors.Is(err, client.ErrAuthRejected) {
			return nil, fmt.Errorf("%s rejected the token", flags.Server)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return cl, nil
}

// render writes plain in text mode and structured otherwise.
func render(w io.Writer, format output.Format, plain string, structured any) error {
	if format == output.FormatText {
		_, err := fmt.Fprintln(w, plain)
		return err
	}
	return output.NewFormatter(format).Format(w, structured)
}
