package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/cli/config"
	"github.com/yndnr/authline/internal/cli/output"
)

// ConfigCommand returns the settings file commands.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or save CLI settings",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective settings (token masked)",
				Action: configShow,
			},
			{
				Name:   "save",
				Usage:  "Write the effective settings to the settings file",
				Action: configSave,
			},
		},
	}
}

func effectiveSettings(c *cli.Context) (*config.CLIConfig, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, err
	}
	return &config.CLIConfig{
		Server:  flags.Server,
		Token:   flags.Token,
		Output:  string(flags.Output),
		Timeout: flags.Timeout,
	}, nil
}

func configShow(c *cli.Context) error {
	cfg, err := effectiveSettings(c)
	if err != nil {
		return err
	}
	format := output.Format(cfg.Output)
	return output.NewFormatter(format).Format(c.App.Writer, cfg.Sanitized())
}

func configSave(c *cli.Context) error {
	cfg, err := effectiveSettings(c)
	if err != nil {
		return err
	}
	path := c.String("config")
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "settings written to %s\n", path)
	return nil
}
