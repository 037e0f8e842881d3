package registry

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/domain"
	"gopkg.in/yaml.v3"
)

// declarationFile is the YAML form of a declaration set. Views and services
// refer to other objects by name; the names may be declared in another file or
// in the compiled-in declarations.
type declarationFile struct {
	Entities        []*api.FeatureEntity  `yaml:"entities"`
	Sources         []*api.Datasource     `yaml:"sources"`
	FeatureViews    []*viewDeclaration    `yaml:"feature_views"`
	FeatureServices []*api.FeatureService `yaml:"feature_services"`
}

type viewDeclaration struct {
	Name        string                   `yaml:"name"`
	Entities    []string                 `yaml:"entities"`
	Source      string                   `yaml:"source"`
	TTL         string                   `yaml:"ttl"`
	Online      bool                     `yaml:"online"`
	Owner       string                   `yaml:"owner"`
	Description string                   `yaml:"description"`
	Tags        map[string]string        `yaml:"tags"`
	Schema      []*api.FeatureViewFields `yaml:"schema"`
}

func LoadDeclarationFile(path string) ([]domain.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declaration file %s error, err=%v", path, err)
	}
	objs, err := LoadDeclarations(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return objs, nil
}

// LoadDeclarations parses a YAML declaration file. Objects come back in
// dependency order: entities, sources, feature views, feature services.
func LoadDeclarations(r io.Reader) ([]domain.Object, error) {
	var file declarationFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode declarations error, err=%v", err)
	}

	var objs []domain.Object
	entities := make(map[string]*domain.Entity)
	sources := make(map[string]domain.DataSource)

	for _, e := range file.Entities {
		entity, err := domain.NewEntity(e)
		if err != nil {
			return nil, err
		}
		entities[entity.Name] = entity
		objs = append(objs, entity)
	}

	for _, ds := range file.Sources {
		if ds.Type == "" {
			ds.Type = constants.Datasource_Type_File
		}
		source, err := domain.NewDataSource(ds)
		if err != nil {
			return nil, err
		}
		sources[source.GetName()] = source
		objs = append(objs, source)
	}

	for _, v := range file.FeatureViews {
		ttl, err := ParseTTL(v.TTL)
		if err != nil {
			return nil, fmt.Errorf("feature view %s: %w", v.Name, err)
		}
		view := &domain.FeatureView{
			Name:        v.Name,
			TTL:         ttl,
			Online:      v.Online,
			Owner:       v.Owner,
			Description: v.Description,
			Tags:        v.Tags,
		}
		for _, name := range v.Entities {
			if entity, ok := entities[name]; ok {
				view.Entities = append(view.Entities, entity)
			} else {
				view.Entities = append(view.Entities, domain.EntityRef(name))
			}
		}
		if v.Source != "" {
			if source, ok := sources[v.Source]; ok {
				view.Source = source
			} else {
				view.Source = domain.SourceRef(v.Source)
			}
		}
		for _, field := range v.Schema {
			dtype, ok := constants.ParseFSType(field.Type)
			if !ok {
				return nil, &domain.TypeError{Kind: constants.Object_Kind_FeatureView, Name: v.Name, Field: field.Name, Type: field.Type}
			}
			view.Schema = append(view.Schema, domain.Field{Name: field.Name, Dtype: dtype, Tags: field.Tags})
		}
		objs = append(objs, view)
	}

	for _, s := range file.FeatureServices {
		objs = append(objs, domain.NewFeatureService(s))
	}

	return objs, nil
}

const maxTTLDays = math.MaxInt64 / int64(24*time.Hour)

// ParseTTL accepts Go durations plus a day suffix, e.g. "3650d". Empty means
// no expiry.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.ParseInt(strings.TrimSuffix(s, "d"), 10, 64)
		if err != nil || days < 0 || days > maxTTLDays {
			return 0, fmt.Errorf("invalid ttl %q", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	ttl, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q", s)
	}
	return ttl, nil
}

// MergeDeclarations appends the objects of extra to base. An entity or source
// reference in extra is resolved against base so that YAML views can build on
// the compiled-in declarations.
func MergeDeclarations(base []domain.Object, extra []domain.Object) []domain.Object {
	entities := make(map[string]*domain.Entity)
	sources := make(map[string]domain.DataSource)
	for _, o := range append(append([]domain.Object{}, base...), extra...) {
		if domain.IsReference(o) {
			continue
		}
		switch obj := o.(type) {
		case *domain.Entity:
			entities[obj.Name] = obj
		case domain.DataSource:
			sources[obj.GetName()] = obj
		case *domain.FeatureView:
			if obj.Source != nil && !domain.IsReference(obj.Source) {
				sources[obj.Source.GetName()] = obj.Source
			}
		}
	}

	merged := append([]domain.Object{}, base...)
	for _, o := range extra {
		if view, ok := o.(*domain.FeatureView); ok {
			for i, entity := range view.Entities {
				if domain.IsReference(entity) {
					if declared, ok := entities[entity.Name]; ok {
						view.Entities[i] = declared
					}
				}
			}
			if view.Source != nil && domain.IsReference(view.Source) {
				if declared, ok := sources[view.Source.GetName()]; ok {
					view.Source = declared
				}
			}
		}
		merged = append(merged, o)
	}
	return merged
}
