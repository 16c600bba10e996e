package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/auth"
)

// HashTokenCommand returns the hash-token command.
func HashTokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash-token",
		Usage:     "Print an Argon2id hash of a secret for use as the server AUTH_TOKEN",
		ArgsUsage: "SECRET",
		Action:    hashTokenAction,
	}
}

func hashTokenAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("hash-token requires exactly one SECRET argument")
	}
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	hash, err := auth.HashToken(c.Args().First())
	if err != nil {
		return err
	}
	return render(c.App.Writer, flags.Output, hash, map[string]string{"hash": hash})
}

// GenerateTokenCommand returns the generate-token command.
func GenerateTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate-token",
		Usage: "Print a random secret, and optionally its Argon2id hash",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "bytes",
				Usage: "number of random bytes",
				Value: auth.DefaultSecretLength,
			},
			&cli.BoolFlag{
				Name:  "hash",
				Usage: "also print the Argon2id hash for the server",
			},
		},
		Action: generateTokenAction,
	}
}

type generatedToken struct {
	Secret string `json:"secret" yaml:"secret"`
	Hash   string `json:"hash,omitempty" yaml:"hash,omitempty"`
}

func generateTokenAction(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	secret, err := auth.GenerateSecretWithLength(c.Int("bytes"))
	if err != nil {
		return err
	}
	result := generatedToken{Secret: secret}

	plain := secret
	if c.Bool("hash") {
		if result.Hash, err = auth.HashToken(secret); err != nil {
			return err
		}
		plain = fmt.Sprintf("secret: %s\nhash:   %s", result.Secret, result.Hash)
	}
	return render(c.App.Writer, flags.Output, plain, result)
}
