package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benithors/dotresolve/internal/config"
	"github.com/benithors/dotresolve/internal/logger"
	"github.com/benithors/dotresolve/internal/rdap"
	"github.com/benithors/dotresolve/internal/registrar/namecheap"
	"github.com/benithors/dotresolve/internal/resolver"
)

type app struct {
	Version string

	// Global flags.
	VersionFlag bool
	Format      string
	JSON        bool

	// Derived runtime state.
	cfg       *config.Config
	log       *zap.Logger
	resolver  *resolver.Resolver
	outFormat outputFormat
}

func newRootCmd(ver string) *cobra.Command {
	a := &app{Version: ver}

	root := &cobra.Command{
		Use:           "dotresolve",
		Short:         "Resolve domain availability via registrar and registry sources",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return &cliError{Code: 2, ShowUsage: true, Cmd: cmd}
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SetFlagErrorFunc(usageErr)

	pf := root.PersistentFlags()
	pf.BoolVar(&a.VersionFlag, "version", false, "Print version and exit")
	pf.StringVar(&a.Format, "format", "auto", "Output format for check: auto|table|json")
	pf.BoolVar(&a.JSON, "json", false, "Alias for --format json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if a.VersionFlag {
			fmt.Fprintf(os.Stdout, "dotresolve %s (%s/%s)\n", a.Version, runtime.GOOS, runtime.GOARCH)
			return errExit0
		}

		formatStr := strings.ToLower(strings.TrimSpace(a.Format))
		if a.JSON {
			if formatStr != "auto" && formatStr != "" {
				return usageErr(cmd, fmt.Errorf("do not combine --format with --json"))
			}
			formatStr = "json"
		}
		a.outFormat = resolveFormat(formatStr, os.Stdout)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg

		log, err := logger.New(cfg.App.LogLevel)
		if err != nil {
			return err
		}
		a.log = log

		rdapClient := rdap.NewClient(rdap.Options{
			BootstrapURL: cfg.RDAP.BootstrapURL,
			Timeout:      cfg.RDAP.Timeout,
			CacheTTL:     cfg.RDAP.CacheTTL,
			Logger:       log,
		})

		opts := resolver.Options{
			Secondary: rdapClient,
			Logger:    log,
		}
		if cfg.Namecheap.Configured() {
			nc, err := namecheap.NewClient(namecheap.Options{
				APIUser:  cfg.Namecheap.APIUser,
				APIKey:   cfg.Namecheap.APIKey,
				Username: cfg.Namecheap.Username,
				ClientIP: cfg.Namecheap.ClientIP,
				BaseURL:  cfg.Namecheap.URL,
				Timeout:  cfg.Namecheap.Timeout,
			})
			if err != nil {
				return err
			}
			opts.Registrar = nc
		} else {
			log.Info("registrar credentials not configured, using registry lookups only")
		}

		a.resolver = resolver.New(opts)
		return nil
	}

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newCheckCmd(a))

	return root
}
