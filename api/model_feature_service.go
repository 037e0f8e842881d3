package api

import "time"

type FeatureService struct {
	FeatureServiceId string                   `json:"feature_service_id,omitempty" yaml:"feature_service_id,omitempty"`
	ProjectName      string                   `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	Name             string                   `json:"name" yaml:"name"`
	Projections      []*FeatureViewProjection `json:"projections" yaml:"features"`
	Owner            string                   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Description      string                   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags             map[string]string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt        time.Time                `json:"created_at" yaml:"created_at,omitempty"`
	LastUpdatedAt    time.Time                `json:"last_updated_at" yaml:"last_updated_at,omitempty"`
}

// FeatureViewProjection selects features of one view. An empty feature list
// selects every feature of the view.
type FeatureViewProjection struct {
	FeatureViewName string   `json:"feature_view_name" yaml:"feature_view"`
	Features        []string `json:"features,omitempty" yaml:"features,omitempty"`
}
