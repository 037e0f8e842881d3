package domain

import (
	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
)

// Entity is a named join key used to correlate features across sources.
type Entity struct {
	Name        string `validate:"required,objectName"`
	ValueType   constants.FSType
	JoinKeys    []string `validate:"min=1,dive,required,objectName"`
	Description string
	Owner       string
	Tags        map[string]string

	ref bool
}

// EntityRef names an entity declared elsewhere.
func EntityRef(name string) *Entity {
	return &Entity{Name: name, ref: true}
}

func NewEntity(entity *api.FeatureEntity) (*Entity, error) {
	valueType, ok := constants.ParseFSType(entity.ValueType)
	if !ok || valueType.IsArray() {
		return nil, &TypeError{Kind: constants.Object_Kind_Entity, Name: entity.FeatureEntityName, Type: entity.ValueType}
	}
	return &Entity{
		Name:        entity.FeatureEntityName,
		ValueType:   valueType,
		JoinKeys:    append([]string(nil), entity.JoinKeys...),
		Description: entity.Description,
		Owner:       entity.Owner,
		Tags:        copyTags(entity.Tags),
	}, nil
}

func (e *Entity) GetName() string {
	return e.Name
}

func (e *Entity) GetKind() string {
	return constants.Object_Kind_Entity
}

func (e *Entity) GetJoinKeys() []string {
	return e.JoinKeys
}

func (e *Entity) isReference() bool {
	return e.ref
}

func (e *Entity) ToAPI(projectName string) *api.FeatureEntity {
	return &api.FeatureEntity{
		ProjectName:       projectName,
		FeatureEntityName: e.Name,
		ValueType:         e.ValueType.String(),
		JoinKeys:          append([]string(nil), e.JoinKeys...),
		Description:       e.Description,
		Owner:             e.Owner,
		Tags:              copyTags(e.Tags),
	}
}

func copyTags(tags map[string]string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for k, v := range tags {
		m[k] = v
	}
	return m
}
