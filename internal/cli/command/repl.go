package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/cli/repl"
)

// REPLCommand returns the interactive command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Interactive session over one authenticated connection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "history file (default ~/.authline/history)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "keep history in memory only",
			},
		},
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	cl, err := connect(c, flags)
	if err != nil {
		return err
	}
	defer cl.Close()

	history := repl.NewHistory()
	switch {
	case c.Bool("no-history"):
		history = repl.NewHistoryFile("")
	case c.String("history-file") != "":
		history = repl.NewHistoryFile(c.String("history-file"))
	}

	fmt.Fprintf(c.App.Writer, "connected to %s, type help for commands\n", cl.Addr())
	return repl.New(cl,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(history),
	).Run()
}
