package main

import (
	"fmt"
	"io"
	"os"

	"github.com/credit-scoring/feature-repo/config"
	"github.com/credit-scoring/feature-repo/featurestore"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "v0.1.0"

// app is the state shared by the commands of one invocation.
type app struct {
	repoDir string
	cfg     *config.Config
	client  *featurestore.FeatureStoreClient
	logger  zerolog.Logger
	cmd     *cobra.Command
}

// newApp creates the featurerepo command tree.
func newApp() *app {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "featurerepo",
		Short: "featurerepo manages the credit scoring feature registry",
		Long: `featurerepo validates the credit scoring feature declarations, applies them
to the registry configured in feature_store.yaml and inspects registered
entities, feature views and feature services.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}
	cmd.PersistentFlags().StringVar(&a.repoDir, "repo", ".", "feature repository directory containing feature_store.yaml")

	cmd.AddCommand(newApplyCmd(a))
	cmd.AddCommand(newPlanCmd(a))
	cmd.AddCommand(newTeardownCmd(a))
	cmd.AddCommand(newEntitiesCmd(a))
	cmd.AddCommand(newDataSourcesCmd(a))
	cmd.AddCommand(newFeatureViewsCmd(a))
	cmd.AddCommand(newFeatureServicesCmd(a))
	cmd.AddCommand(newSchemaCmd(a))
	cmd.AddCommand(newVersionCmd())
	a.cmd = cmd
	return a
}

// Execute runs the command and closes the registry client, also when the
// command fails.
func (a *app) Execute() error {
	err := a.cmd.Execute()
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load(a.repoDir)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel())

	client, err := featurestore.NewFeatureStoreClient(cfg, featurestore.WithLogger(a.logger), featurestore.WithLoopData(false))
	if err != nil {
		return err
	}
	a.client = client
	return nil
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(level).With().Timestamp().Logger()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "featurerepo "+version)
		},
	}
}
