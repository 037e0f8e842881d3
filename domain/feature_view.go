package domain

import (
	"sort"
	"time"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
)

// FeatureView binds entities to a source and an ordered schema of typed
// fields. A zero TTL means features never expire.
type FeatureView struct {
	Name        string        `validate:"required,objectName"`
	Entities    []*Entity     `validate:"min=1"`
	TTL         time.Duration `validate:"gte=0"`
	Schema      []Field       `validate:"dive"`
	Source      DataSource    `validate:"-"`
	Online      bool
	Description string
	Owner       string
	Tags        map[string]string
}

// NewFeatureView builds a view from its registry form, resolving entities and
// the source through p.
func NewFeatureView(view *api.FeatureView, p *Project) (*FeatureView, error) {
	featureView := &FeatureView{
		Name:        view.Name,
		TTL:         time.Duration(view.Ttl) * time.Second,
		Online:      view.Online,
		Description: view.Description,
		Owner:       view.Owner,
		Tags:        copyTags(view.Tags),
	}

	for _, name := range view.Entities {
		entity := p.GetFeatureEntity(name)
		if entity == nil {
			return nil, &ReferenceError{Kind: constants.Object_Kind_FeatureView, Name: view.Name, RefKind: constants.Object_Kind_Entity, Ref: name}
		}
		featureView.Entities = append(featureView.Entities, entity)
	}

	source := p.GetDataSource(view.Source)
	if source == nil {
		return nil, &ReferenceError{Kind: constants.Object_Kind_FeatureView, Name: view.Name, RefKind: constants.Object_Kind_DataSource, Ref: view.Source}
	}
	featureView.Source = source

	fields := make([]*api.FeatureViewFields, len(view.Fields))
	copy(fields, view.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Position < fields[j].Position
	})
	for _, field := range fields {
		if field == nil {
			continue
		}
		dtype, ok := constants.ParseFSType(field.Type)
		if !ok {
			return nil, &TypeError{Kind: constants.Object_Kind_FeatureView, Name: view.Name, Field: field.Name, Type: field.Type}
		}
		featureView.Schema = append(featureView.Schema, Field{Name: field.Name, Dtype: dtype, Tags: copyTags(field.Tags)})
	}

	return featureView, nil
}

func (f *FeatureView) GetName() string {
	return f.Name
}

func (f *FeatureView) GetKind() string {
	return constants.Object_Kind_FeatureView
}

func (f *FeatureView) GetTTL() time.Duration {
	return f.TTL
}

func (f *FeatureView) GetFields() []Field {
	fields := make([]Field, len(f.Schema))
	copy(fields, f.Schema)
	return fields
}

func (f *FeatureView) GetFeatureNames() []string {
	names := make([]string, 0, len(f.Schema))
	for _, field := range f.Schema {
		names = append(names, field.Name)
	}
	return names
}

func (f *FeatureView) GetEntityNames() []string {
	names := make([]string, 0, len(f.Entities))
	for _, entity := range f.Entities {
		names = append(names, entity.Name)
	}
	return names
}

// GetJoinKeys returns the join keys of all entities in declaration order.
func (f *FeatureView) GetJoinKeys() []string {
	var keys []string
	for _, entity := range f.Entities {
		keys = append(keys, entity.JoinKeys...)
	}
	return keys
}

func (f *FeatureView) GetField(name string) (Field, bool) {
	for _, field := range f.Schema {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Select projects the view onto the named features; no names selects all of them.
func (f *FeatureView) Select(features ...string) FeatureViewProjection {
	return FeatureViewProjection{
		FeatureViewName: f.Name,
		Features:        append([]string(nil), features...),
	}
}

func (f *FeatureView) ToAPI(projectName string) *api.FeatureView {
	view := &api.FeatureView{
		ProjectName: projectName,
		Name:        f.Name,
		Entities:    f.GetEntityNames(),
		Online:      f.Online,
		Ttl:         int64(f.TTL / time.Second),
		Owner:       f.Owner,
		Description: f.Description,
		Tags:        copyTags(f.Tags),
	}
	if f.Source != nil {
		view.Source = f.Source.GetName()
	}
	for i, field := range f.Schema {
		view.Fields = append(view.Fields, field.ToAPI(i+1))
	}
	return view
}
