package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/benithors/dotresolve/internal/domain"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [domain...]",
		Short: "Resolve availability for a batch of domains (args and/or stdin)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDomainsFromArgsAndStdin(args, os.Stdin)
			if err != nil {
				return &cliError{Code: 1, Err: fmt.Errorf("failed to read domains: %w", err), Cmd: cmd}
			}
			if len(raw) == 0 {
				return &cliError{Code: 2, ShowUsage: true, Cmd: cmd}
			}

			resp, err := a.resolver.Resolve(cmd.Context(), raw)
			if err != nil {
				if errors.Is(err, domain.ErrEmptyBatch) {
					return &cliError{Code: 2, Err: err, Cmd: cmd}
				}
				return &cliError{Code: 1, Err: err, Cmd: cmd}
			}

			if err := writeResponse(os.Stdout, a.outFormat, resp); err != nil {
				return &cliError{Code: 1, Err: fmt.Errorf("failed to write output: %w", err), Cmd: cmd}
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(usageErr)

	return cmd
}
