package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type cliError struct {
	Code      int
	Err       error
	ShowUsage bool
	Cmd       *cobra.Command
}

func (e *cliError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// report prints the error (and usage when requested) and returns the
// process exit code.
func (e *cliError) report(w io.Writer) int {
	if e.Err != nil && e.Err.Error() != "" {
		fmt.Fprintln(w, e.Err.Error())
		fmt.Fprintln(w)
	}
	if e.ShowUsage && e.Cmd != nil {
		_ = e.Cmd.Usage()
	}
	return e.Code
}

var errExit0 = &cliError{Code: 0}

func usageErr(cmd *cobra.Command, err error) error {
	return &cliError{Code: 2, Err: err, ShowUsage: true, Cmd: cmd}
}
