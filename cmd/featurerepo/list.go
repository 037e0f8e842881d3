package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/antihax/optional"
	"github.com/credit-scoring/feature-repo/api"
	"github.com/spf13/cobra"
)

func newEntitiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Inspect registered entities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.client.Registry().Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			var rows [][]string
			for _, entity := range snapshot.FeatureEntities {
				rows = append(rows, []string{entity.FeatureEntityName, entity.ValueType, strings.Join(entity.JoinKeys, ","), entity.Description})
			}
			return printTable(cmd.OutOrStdout(), []string{"NAME", "VALUE TYPE", "JOIN KEYS", "DESCRIPTION"}, rows)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "describe <name>",
		Short: "Show a registered entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity, err := a.client.Registry().GetEntity(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), entity)
		},
	})
	return cmd
}

func newDataSourcesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data-sources",
		Short: "Inspect registered data sources",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered data sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.client.Registry().Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			var rows [][]string
			for _, source := range snapshot.Datasources {
				location := source.Path
				if source.Type != "file" {
					location = strings.Trim(strings.Join([]string{source.Database, source.Schema, source.Table}, "."), ".")
				}
				rows = append(rows, []string{source.Name, source.Type, location, source.TimestampField})
			}
			return printTable(cmd.OutOrStdout(), []string{"NAME", "TYPE", "LOCATION", "TIMESTAMP FIELD"}, rows)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "describe <name>",
		Short: "Show a registered data source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.client.Registry().GetDataSource(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), source)
		},
	})
	return cmd
}

func newFeatureViewsCmd(a *app) *cobra.Command {
	var (
		filter     string
		tag        string
		entity     string
		pageSize   int32
		pageNumber int32
	)

	cmd := &cobra.Command{
		Use:   "feature-views",
		Short: "Inspect registered feature views",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered feature views",
		Long: `List registered feature views ordered by name.

--filter takes a boolean expression over name, entities, source, ttl_seconds,
online, owner, tags and fields.

Examples:
  featurerepo feature-views list --entity dob_ssn
  featurerepo feature-views list --tag team=risk
  featurerepo feature-views list --filter '"city" in fields && ttl_seconds > 86400'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &api.ListFeatureViewsOpts{}
			if filter != "" {
				opts.Filter = optional.NewString(filter)
			}
			if tag != "" {
				opts.Tag = optional.NewString(tag)
			}
			if entity != "" {
				opts.Entity = optional.NewString(entity)
			}
			if pageSize > 0 {
				opts.Pagesize = optional.NewInt32(pageSize)
				opts.Pagenumber = optional.NewInt32(pageNumber)
			}
			resp, err := a.client.Registry().ListFeatureViews(cmd.Context(), opts)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, view := range resp.FeatureViews {
				ttl := "none"
				if view.Ttl > 0 {
					ttl = (time.Duration(view.Ttl) * time.Second).String()
				}
				rows = append(rows, []string{view.Name, strings.Join(view.Entities, ","), view.Source, ttl, fmt.Sprint(len(view.Fields)), fmt.Sprint(view.Online)})
			}
			return printTable(cmd.OutOrStdout(), []string{"NAME", "ENTITIES", "SOURCE", "TTL", "FIELDS", "ONLINE"}, rows)
		},
	}
	listCmd.Flags().StringVar(&filter, "filter", "", "boolean filter expression")
	listCmd.Flags().StringVar(&tag, "tag", "", `tag "key" or "key=value"`)
	listCmd.Flags().StringVar(&entity, "entity", "", "entity name")
	listCmd.Flags().Int32Var(&pageSize, "page-size", 0, "page size, all views when 0")
	listCmd.Flags().Int32Var(&pageNumber, "page", 1, "page number")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "describe <name>",
		Short: "Show a registered feature view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.client.Registry().GetFeatureView(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), view)
		},
	})
	return cmd
}

func newFeatureServicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feature-services",
		Short: "Inspect registered feature services",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered feature services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.client.Registry().Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			var rows [][]string
			for _, service := range snapshot.FeatureServices {
				var views []string
				for _, projection := range service.Projections {
					views = append(views, projection.FeatureViewName)
				}
				rows = append(rows, []string{service.Name, strings.Join(views, ","), service.Description})
			}
			return printTable(cmd.OutOrStdout(), []string{"NAME", "FEATURE VIEWS", "DESCRIPTION"}, rows)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "describe <name>",
		Short: "Show a registered feature service and its resolved features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.client.GetProject(a.cfg.Project)
			if err != nil {
				return err
			}
			service := project.GetFeatureService(args[0])
			if service == nil {
				return fmt.Errorf("feature service %s: not found", args[0])
			}
			features, err := service.ResolveFeatures(project)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), map[string]interface{}{
				"name":      service.Name,
				"join_keys": service.GetJoinKeys(project),
				"features":  features,
			})
		},
	})
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <feature_view>",
		Short: "Print the Arrow schema of rows read through a feature view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := a.client.GetProject(a.cfg.Project)
			if err != nil {
				return err
			}
			view := project.GetFeatureView(args[0])
			if view == nil {
				return fmt.Errorf("feature view %s: not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.ArrowSchema().String())
			return nil
		},
	}
}
