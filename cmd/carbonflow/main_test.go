package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carbonflow/carbonflow/internal/cli"
	"github.com/carbonflow/carbonflow/pkg/version"
)

func TestRootCommand(t *testing.T) {
	root := cli.NewRootCmd(version.String())
	assert.Equal(t, "carbonflow", root.Use)
	assert.Contains(t, root.Version, version.GetVersion())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid input", err: cli.ErrInvalidInput, want: exitInvalid},
		{name: "wrapped invalid input", err: fmt.Errorf("%w: 2 error(s)", cli.ErrInvalidInput), want: exitInvalid},
		{name: "other error", err: errors.New("boom"), want: exitError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCode(tc.err))
		})
	}
}
