package api

import "time"

type Datasource struct {
	DatasourceId           string            `json:"datasource_id,omitempty" yaml:"datasource_id,omitempty"`
	ProjectName            string            `json:"project_name,omitempty" yaml:"project_name,omitempty"`
	Name                   string            `json:"name" yaml:"name"`
	Type                   string            `json:"type" yaml:"type"`
	Table                  string            `json:"table,omitempty" yaml:"table,omitempty"`
	Query                  string            `json:"query,omitempty" yaml:"query,omitempty"`
	Schema                 string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Database               string            `json:"database,omitempty" yaml:"database,omitempty"`
	Path                   string            `json:"path,omitempty" yaml:"path,omitempty"`
	FileFormat             string            `json:"file_format,omitempty" yaml:"file_format,omitempty"`
	TimestampField         string            `json:"timestamp_field" yaml:"timestamp_field"`
	CreatedTimestampColumn string            `json:"created_timestamp_column,omitempty" yaml:"created_timestamp_column,omitempty"`
	FieldMapping           map[string]string `json:"field_mapping,omitempty" yaml:"field_mapping,omitempty"`
	Description            string            `json:"description,omitempty" yaml:"description,omitempty"`
	Owner                  string            `json:"owner,omitempty" yaml:"owner,omitempty"`
	Tags                   map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt              time.Time         `json:"created_at" yaml:"created_at,omitempty"`
	LastUpdatedAt          time.Time         `json:"last_updated_at" yaml:"last_updated_at,omitempty"`
}
