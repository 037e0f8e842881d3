package domain

import (
	"sort"

	"github.com/credit-scoring/feature-repo/api"
)

type Project struct {
	ProjectName       string
	FeatureEntityMap  map[string]*Entity
	DataSourceMap     map[string]DataSource
	FeatureViewMap    map[string]*FeatureView
	FeatureServiceMap map[string]*FeatureService
}

func NewProject(name string) *Project {
	return &Project{
		ProjectName:       name,
		FeatureEntityMap:  make(map[string]*Entity),
		DataSourceMap:     make(map[string]DataSource),
		FeatureViewMap:    make(map[string]*FeatureView),
		FeatureServiceMap: make(map[string]*FeatureService),
	}
}

// NewProjectFromRegistry rebuilds the declarations of a stored registry. Views
// are resolved against the entities and sources of the same registry.
func NewProjectFromRegistry(registry *api.Registry) (*Project, error) {
	project := NewProject(registry.ProjectName)

	for _, e := range registry.FeatureEntities {
		entity, err := NewEntity(e)
		if err != nil {
			return nil, err
		}
		project.FeatureEntityMap[entity.Name] = entity
	}

	for _, ds := range registry.Datasources {
		source, err := NewDataSource(ds)
		if err != nil {
			return nil, err
		}
		project.DataSourceMap[source.GetName()] = source
	}

	for _, v := range registry.FeatureViews {
		featureView, err := NewFeatureView(v, project)
		if err != nil {
			return nil, err
		}
		project.FeatureViewMap[featureView.Name] = featureView
	}

	for _, s := range registry.FeatureServices {
		featureService := NewFeatureService(s)
		if _, err := featureService.ResolveFeatures(project); err != nil {
			return nil, err
		}
		project.FeatureServiceMap[featureService.Name] = featureService
	}

	return project, nil
}

func (p *Project) GetFeatureView(name string) *FeatureView {
	return p.FeatureViewMap[name]
}

func (p *Project) GetFeatureEntity(name string) *Entity {
	return p.FeatureEntityMap[name]
}

func (p *Project) GetDataSource(name string) DataSource {
	return p.DataSourceMap[name]
}

func (p *Project) GetFeatureService(name string) *FeatureService {
	return p.FeatureServiceMap[name]
}

func (p *Project) FeatureViewNames() []string {
	return sortedKeys(p.FeatureViewMap)
}

func (p *Project) FeatureEntityNames() []string {
	return sortedKeys(p.FeatureEntityMap)
}

func (p *Project) FeatureServiceNames() []string {
	return sortedKeys(p.FeatureServiceMap)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
