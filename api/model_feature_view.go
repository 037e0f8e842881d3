package api

import "time"

type FeatureView struct {
	FeatureViewId string               `json:"feature_view_id,omitempty" yaml:"feature_view_id,omitempty"`
	ProjectName   string               `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	Name          string               `json:"name" yaml:"name"`
	Entities      []string             `json:"entities" yaml:"entities"`
	Source        string               `json:"source" yaml:"source"`
	Online        bool                 `json:"online" yaml:"online"`
	Ttl           int64                `json:"ttl" yaml:"ttl"` // seconds, 0 means no expiry
	Owner         string               `json:"owner,omitempty" yaml:"owner,omitempty"`
	Description   string               `json:"description,omitempty" yaml:"description,omitempty"`
	Tags          map[string]string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Fields        []*FeatureViewFields `json:"fields" yaml:"fields"`
	CreatedAt     time.Time            `json:"created_at" yaml:"created_at,omitempty"`
	LastUpdatedAt time.Time            `json:"last_updated_at" yaml:"last_updated_at,omitempty"`
}
