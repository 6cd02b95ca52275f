package main

import (
	"errors"
	"os"

	"github.com/carbonflow/carbonflow/internal/cli"
	"github.com/carbonflow/carbonflow/pkg/version"
)

// Exit codes.
const (
	exitError   = 1
	exitInvalid = 2
)

func main() {
	if err := run(); err != nil {
		os.Exit(exitCode(err))
	}
}

func run() error {
	return cli.NewRootCmd(version.String()).Execute()
}

// exitCode maps a command error to the process exit status. Input that
// fails validation exits 2 so scripts can tell it apart from other failures.
func exitCode(err error) int {
	if errors.Is(err, cli.ErrInvalidInput) {
		return exitInvalid
	}
	return exitError
}
