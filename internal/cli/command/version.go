package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			return render(c.App.Writer, flags.Output, "authline-cli "+buildinfo.String(), buildinfo.Get())
		},
	}
}
