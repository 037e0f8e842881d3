package domain

import (
	"errors"
	"fmt"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
)

// DataSource references an externally stored table plus the timestamp columns
// used for point-in-time correctness.
type DataSource interface {
	Object
	GetType() string
	GetTimestampField() string
	GetCreatedTimestampColumn() string
	GetFieldMapping() map[string]string

	// Validate checks the attributes specific to the source type.
	Validate() error
	ToAPI(projectName string) *api.Datasource
}

func NewDataSource(ds *api.Datasource) (DataSource, error) {
	switch ds.Type {
	case constants.Datasource_Type_Redshift:
		return &RedshiftSource{
			Name:                   ds.Name,
			Table:                  ds.Table,
			Query:                  ds.Query,
			Schema:                 ds.Schema,
			Database:               ds.Database,
			TimestampField:         ds.TimestampField,
			CreatedTimestampColumn: ds.CreatedTimestampColumn,
			FieldMapping:           copyTags(ds.FieldMapping),
			Description:            ds.Description,
			Owner:                  ds.Owner,
			Tags:                   copyTags(ds.Tags),
		}, nil
	case constants.Datasource_Type_File:
		return &FileSource{
			Name:                   ds.Name,
			Path:                   ds.Path,
			FileFormat:             ds.FileFormat,
			TimestampField:         ds.TimestampField,
			CreatedTimestampColumn: ds.CreatedTimestampColumn,
			FieldMapping:           copyTags(ds.FieldMapping),
			Description:            ds.Description,
			Owner:                  ds.Owner,
			Tags:                   copyTags(ds.Tags),
		}, nil
	}
	return nil, fmt.Errorf("not support datasource type, name:%s type:%s", ds.Name, ds.Type)
}

// RedshiftSource reads a Redshift table or query. Without an explicit name the
// source is named after its table.
type RedshiftSource struct {
	Name                   string
	Table                  string
	Query                  string
	Schema                 string
	Database               string
	TimestampField         string `validate:"required"`
	CreatedTimestampColumn string
	FieldMapping           map[string]string
	Description            string
	Owner                  string
	Tags                   map[string]string
}

func (s *RedshiftSource) GetName() string {
	if s.Name == "" {
		return s.Table
	}
	return s.Name
}

func (s *RedshiftSource) GetKind() string {
	return constants.Object_Kind_DataSource
}

func (s *RedshiftSource) GetType() string {
	return constants.Datasource_Type_Redshift
}

func (s *RedshiftSource) GetTimestampField() string {
	return s.TimestampField
}

func (s *RedshiftSource) GetCreatedTimestampColumn() string {
	return s.CreatedTimestampColumn
}

func (s *RedshiftSource) GetFieldMapping() map[string]string {
	return s.FieldMapping
}

func (s *RedshiftSource) Validate() error {
	if s.Table == "" && s.Query == "" {
		return errors.New("one of table or query is required")
	}
	if s.Table != "" && s.Query != "" {
		return errors.New("table and query are mutually exclusive")
	}
	if s.Query != "" && s.Name == "" {
		return errors.New("name is required for a query source")
	}
	if s.TimestampField != "" && s.TimestampField == s.CreatedTimestampColumn {
		return errors.New("timestamp_field and created_timestamp_column must differ")
	}
	return nil
}

// FullTableName is the schema qualified table name, e.g. spectrum.zipcode_features.
func (s *RedshiftSource) FullTableName() string {
	if s.Schema == "" {
		return s.Table
	}
	return s.Schema + "." + s.Table
}

func (s *RedshiftSource) ToAPI(projectName string) *api.Datasource {
	return &api.Datasource{
		ProjectName:            projectName,
		Name:                   s.GetName(),
		Type:                   s.GetType(),
		Table:                  s.Table,
		Query:                  s.Query,
		Schema:                 s.Schema,
		Database:               s.Database,
		TimestampField:         s.TimestampField,
		CreatedTimestampColumn: s.CreatedTimestampColumn,
		FieldMapping:           copyTags(s.FieldMapping),
		Description:            s.Description,
		Owner:                  s.Owner,
		Tags:                   copyTags(s.Tags),
	}
}

// FileSource reads a local or object-store file, parquet unless FileFormat says otherwise.
type FileSource struct {
	Name                   string `validate:"required"`
	Path                   string `validate:"required"`
	FileFormat             string
	TimestampField         string `validate:"required"`
	CreatedTimestampColumn string
	FieldMapping           map[string]string
	Description            string
	Owner                  string
	Tags                   map[string]string
}

func (s *FileSource) GetName() string {
	return s.Name
}

func (s *FileSource) GetKind() string {
	return constants.Object_Kind_DataSource
}

func (s *FileSource) GetType() string {
	return constants.Datasource_Type_File
}

func (s *FileSource) GetTimestampField() string {
	return s.TimestampField
}

func (s *FileSource) GetCreatedTimestampColumn() string {
	return s.CreatedTimestampColumn
}

func (s *FileSource) GetFieldMapping() map[string]string {
	return s.FieldMapping
}

func (s *FileSource) Validate() error {
	switch s.FileFormat {
	case "", "parquet", "csv":
	default:
		return fmt.Errorf("unsupported file_format %s", s.FileFormat)
	}
	if s.TimestampField != "" && s.TimestampField == s.CreatedTimestampColumn {
		return errors.New("timestamp_field and created_timestamp_column must differ")
	}
	return nil
}

func (s *FileSource) ToAPI(projectName string) *api.Datasource {
	format := s.FileFormat
	if format == "" {
		format = "parquet"
	}
	return &api.Datasource{
		ProjectName:            projectName,
		Name:                   s.Name,
		Type:                   s.GetType(),
		Path:                   s.Path,
		FileFormat:             format,
		TimestampField:         s.TimestampField,
		CreatedTimestampColumn: s.CreatedTimestampColumn,
		FieldMapping:           copyTags(s.FieldMapping),
		Description:            s.Description,
		Owner:                  s.Owner,
		Tags:                   copyTags(s.Tags),
	}
}

type sourceRef struct {
	name string
}

// SourceRef names a data source declared elsewhere.
func SourceRef(name string) DataSource {
	return &sourceRef{name: name}
}

func (s *sourceRef) GetName() string                    { return s.name }
func (s *sourceRef) GetKind() string                    { return constants.Object_Kind_DataSource }
func (s *sourceRef) GetType() string                    { return "" }
func (s *sourceRef) GetTimestampField() string          { return "" }
func (s *sourceRef) GetCreatedTimestampColumn() string  { return "" }
func (s *sourceRef) GetFieldMapping() map[string]string { return nil }
func (s *sourceRef) Validate() error                    { return nil }
func (s *sourceRef) isReference() bool                  { return true }

func (s *sourceRef) ToAPI(projectName string) *api.Datasource {
	return &api.Datasource{ProjectName: projectName, Name: s.name}
}
