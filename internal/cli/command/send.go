package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

type sendResult struct {
	Message string `json:"message" yaml:"message"`
	Reply   string `json:"reply" yaml:"reply"`
}

// SendCommand returns the send command.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send one command and print the reply",
		ArgsUsage: "TEXT...",
		Action:    sendAction,
	}
}

func sendAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("send requires the text to send")
	}
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	cl, err := connect(c, flags)
	if err != nil {
		return err
	}
	defer cl.Close()

	msg := strings.Join(c.Args().Slice(), " ")
	reply, err := cl.Send(msg)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}

	return render(c.App.Writer, flags.Output, reply, sendResult{Message: msg, Reply: reply})
}
