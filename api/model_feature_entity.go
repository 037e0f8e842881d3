package api

import "time"

type FeatureEntity struct {
	FeatureEntityId   string            `json:"feature_entity_id,omitempty" yaml:"feature_entity_id,omitempty"`
	ProjectName       string            `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	FeatureEntityName string            `json:"feature_entity_name" yaml:"name"`
	ValueType         string            `json:"value_type" yaml:"value_type"`
	JoinKeys          []string          `json:"join_keys" yaml:"join_keys"`
	Description       string            `json:"description,omitempty" yaml:"description,omitempty"`
	Owner             string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	Tags              map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt         time.Time         `json:"created_at" yaml:"created_at,omitempty"`
	LastUpdatedAt     time.Time         `json:"last_updated_at" yaml:"last_updated_at,omitempty"`
}
