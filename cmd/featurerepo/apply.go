package main

import (
	"fmt"

	"github.com/credit-scoring/feature-repo/domain"
	"github.com/credit-scoring/feature-repo/features"
	"github.com/credit-scoring/feature-repo/registry"
	"github.com/spf13/cobra"
)

type applyFlags struct {
	noPrune bool
	files   []string
}

func (f *applyFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noPrune, "no-prune", false, "keep registered objects that are no longer declared")
	cmd.Flags().StringSliceVarP(&f.files, "file", "f", nil, "additional YAML declaration file, may be repeated")
}

// declarations returns the compiled-in declarations merged with the files.
func (f *applyFlags) declarations() ([]domain.Object, error) {
	objs := features.Declarations()
	for _, path := range f.files {
		extra, err := registry.LoadDeclarationFile(path)
		if err != nil {
			return nil, err
		}
		objs = registry.MergeDeclarations(objs, extra)
	}
	return objs, nil
}

func newApplyCmd(a *app) *cobra.Command {
	flags := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Validate the declarations and register them",
		Long: `Validate the feature declarations and write them to the registry.
Registered objects that are no longer declared are deleted unless --no-prune is given.

Examples:
  featurerepo apply
  featurerepo apply -f merchant_features.yaml --no-prune`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objs, err := flags.declarations()
			if err != nil {
				return err
			}
			plan, err := a.client.Apply(cmd.Context(), objs, registry.WithPrune(!flags.noPrune))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan.String())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	flags := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			objs, err := flags.declarations()
			if err != nil {
				return err
			}
			plan, err := a.client.Plan(cmd.Context(), objs, registry.WithPrune(!flags.noPrune))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan.String())
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newTeardownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teardown",
		Short: "Delete every registered object of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.client.Teardown(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), plan.String())
			return nil
		},
	}
}
