package api

// Registry is the content of one project's registry.
type Registry struct {
	ProjectName     string            `json:"project_name" yaml:"project"`
	FeatureEntities []*FeatureEntity  `json:"feature_entities" yaml:"entities"`
	Datasources     []*Datasource     `json:"datasources" yaml:"sources"`
	FeatureViews    []*FeatureView    `json:"feature_views" yaml:"feature_views"`
	FeatureServices []*FeatureService `json:"feature_services" yaml:"feature_services"`
}
