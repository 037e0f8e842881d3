package domain

import (
	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
)

type Field struct {
	Name        string `validate:"required,objectName"`
	Dtype       constants.FSType
	Description string
	Tags        map[string]string
}

func (f Field) ToAPI(position int) *api.FeatureViewFields {
	return &api.FeatureViewFields{
		Name:     f.Name,
		Type:     f.Dtype.String(),
		Position: position,
		Tags:     copyTags(f.Tags),
	}
}
