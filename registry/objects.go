package registry

import (
	"fmt"
	"time"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// metadata points at the registry-managed fields of an api model.
type metadata struct {
	id            *string
	projectName   *string
	createdAt     *time.Time
	lastUpdatedAt *time.Time
}

func metadataOf(obj interface{}) metadata {
	switch o := obj.(type) {
	case *api.FeatureEntity:
		return metadata{&o.FeatureEntityId, &o.ProjectName, &o.CreatedAt, &o.LastUpdatedAt}
	case *api.Datasource:
		return metadata{&o.DatasourceId, &o.ProjectName, &o.CreatedAt, &o.LastUpdatedAt}
	case *api.FeatureView:
		return metadata{&o.FeatureViewId, &o.ProjectName, &o.CreatedAt, &o.LastUpdatedAt}
	case *api.FeatureService:
		return metadata{&o.FeatureServiceId, &o.ProjectName, &o.CreatedAt, &o.LastUpdatedAt}
	}
	panic(fmt.Sprintf("not support registry object %T", obj))
}

func newAPIObject(kind string) interface{} {
	switch kind {
	case constants.Object_Kind_Entity:
		return &api.FeatureEntity{}
	case constants.Object_Kind_DataSource:
		return &api.Datasource{}
	case constants.Object_Kind_FeatureView:
		return &api.FeatureView{}
	case constants.Object_Kind_FeatureService:
		return &api.FeatureService{}
	}
	return nil
}

// fingerprint is the canonical form of an object without its registry metadata.
// Two objects with equal fingerprints need no update.
func fingerprint(obj interface{}) (string, error) {
	var normalized interface{}
	switch o := obj.(type) {
	case *api.FeatureEntity:
		c := *o
		c.FeatureEntityId, c.ProjectName = "", ""
		c.CreatedAt, c.LastUpdatedAt = time.Time{}, time.Time{}
		c.JoinKeys = nilIfEmpty(c.JoinKeys)
		c.Tags = nilIfEmptyMap(c.Tags)
		normalized = c
	case *api.Datasource:
		c := *o
		c.DatasourceId, c.ProjectName = "", ""
		c.CreatedAt, c.LastUpdatedAt = time.Time{}, time.Time{}
		c.FieldMapping = nilIfEmptyMap(c.FieldMapping)
		c.Tags = nilIfEmptyMap(c.Tags)
		normalized = c
	case *api.FeatureView:
		c := *o
		c.FeatureViewId, c.ProjectName = "", ""
		c.CreatedAt, c.LastUpdatedAt = time.Time{}, time.Time{}
		c.Entities = nilIfEmpty(c.Entities)
		c.Tags = nilIfEmptyMap(c.Tags)
		c.Fields = nil
		for _, field := range o.Fields {
			f := *field
			f.Position = 0
			f.Tags = nilIfEmptyMap(f.Tags)
			c.Fields = append(c.Fields, &f)
		}
		normalized = c
	case *api.FeatureService:
		c := *o
		c.FeatureServiceId, c.ProjectName = "", ""
		c.CreatedAt, c.LastUpdatedAt = time.Time{}, time.Time{}
		c.Tags = nilIfEmptyMap(c.Tags)
		c.Projections = nil
		for _, projection := range o.Projections {
			p := *projection
			p.Features = nilIfEmpty(p.Features)
			c.Projections = append(c.Projections, &p)
		}
		normalized = c
	default:
		return "", fmt.Errorf("not support registry object %T", obj)
	}
	data, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func nilIfEmptyMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}
