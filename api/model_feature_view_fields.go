package api

type FeatureViewFields struct {
	Name     string            `json:"name" yaml:"name"`
	Type     string            `json:"type" yaml:"dtype"`
	Position int               `json:"position,omitempty" yaml:"-"`
	Tags     map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}
