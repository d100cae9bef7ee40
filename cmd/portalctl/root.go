package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdpi/member-portal/pkg/logger"
	"github.com/pdpi/member-portal/pkg/portalclient"
)

const defaultAPI = "http://localhost:8080/api/v1"

// app is the state shared by every subcommand of one invocation.
type app struct {
	apiURL      string
	sessionPath string
	verbose     bool

	client *portalclient.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Command line client for the member portal API",
		Long: `portalctl signs in to the member portal API and keeps the session
in a local file, refreshing the access token when it is close to expiry.

Examples:
  portalctl login --email anggota@pdpi.or.id --password password123
  portalctl whoami
  portalctl menu sidebar
  portalctl logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.client != nil {
				a.client.Close()
			}
		},
	}

	apiDefault := os.Getenv("PORTAL_API")
	if apiDefault == "" {
		apiDefault = defaultAPI
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", apiDefault, "base URL of the portal API (env PORTAL_API)")
	root.PersistentFlags().StringVar(&a.sessionPath, "session", "", "session file (default: user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log HTTP and token activity to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRefreshCmd(a),
		newMenuCmd(a),
	)
	return root
}

func (a *app) init() error {
	log := zerolog.Nop()
	if a.verbose {
		log = logger.Init(logger.Options{Level: "debug", Pretty: true, Output: os.Stderr, Service: "portalctl"})
	}

	path := a.sessionPath
	if path == "" {
		p, err := portalclient.DefaultStoragePath()
		if err != nil {
			return err
		}
		path = p
	}

	client, err := portalclient.New(a.apiURL, portalclient.NewSession(),
		portalclient.WithStorage(portalclient.NewFileStorage(path)),
		portalclient.WithLogger(log),
	)
	if err != nil {
		return err
	}
	a.client = client
	return nil
}

// restore loads the saved session and fails when there is none.
func (a *app) restore(ctx context.Context) error {
	found, err := a.client.Restore(ctx)
	if err != nil {
		return fmt.Errorf("session expired, run portalctl login: %w", err)
	}
	if !found {
		return fmt.Errorf("not logged in, run portalctl login")
	}
	return nil
}
