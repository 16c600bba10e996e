package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/cli/output"
)

// pingRow is one ping in command output.
type pingRow struct {
	Seq       int    `json:"seq" yaml:"seq"`
	Server    string `json:"server" yaml:"server"`
	RoundTrip string `json:"round_trip" yaml:"round_trip"`
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Measure server processing time and round trip",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of pings",
				Value:   1,
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "pause between pings",
			},
		},
		Action: pingAction,
	}
}

func pingAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	count := c.Int("count")
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}
	interval := c.Duration("interval")

	cl, err := connect(c, flags)
	if err != nil {
		return err
	}
	defer cl.Close()

	rows := make([]pingRow, 0, count)
	for i := 1; i <= count; i++ {
		if i > 1 && interval > 0 {
			time.Sleep(interval)
		}
		res, err := cl.Ping()
		if err != nil {
			return fmt.Errorf("ping %d: %w", i, err)
		}
		rows = append(rows, pingRow{
			Seq:       i,
			Server:    res.Server.String(),
			RoundTrip: res.RoundTrip.String(),
		})
	}

	return output.NewFormatter(flags.Output).Format(c.App.Writer, rows)
}
