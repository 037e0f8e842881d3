package domain

import (
	"fmt"

	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/constants"
)

// FeatureService groups feature view projections that a model consumes together.
type FeatureService struct {
	Name        string                  `validate:"required,objectName"`
	Features    []FeatureViewProjection `validate:"min=1,dive"`
	Description string
	Owner       string
	Tags        map[string]string
}

type FeatureViewProjection struct {
	FeatureViewName string `validate:"required"`
	Features        []string
}

func NewFeatureService(service *api.FeatureService) *FeatureService {
	featureService := &FeatureService{
		Name:        service.Name,
		Description: service.Description,
		Owner:       service.Owner,
		Tags:        copyTags(service.Tags),
	}
	for _, projection := range service.Projections {
		if projection == nil {
			continue
		}
		featureService.Features = append(featureService.Features, FeatureViewProjection{
			FeatureViewName: projection.FeatureViewName,
			Features:        append([]string(nil), projection.Features...),
		})
	}
	return featureService
}

func (s *FeatureService) GetName() string {
	return s.Name
}

func (s *FeatureService) GetKind() string {
	return constants.Object_Kind_FeatureService
}

// ResolveFeatures maps each projected view to its selected feature names,
// expanding empty projections to the full view schema.
func (s *FeatureService) ResolveFeatures(p *Project) (map[string][]string, error) {
	featureNamesMap := make(map[string][]string, len(s.Features))
	for _, projection := range s.Features {
		featureView := p.GetFeatureView(projection.FeatureViewName)
		if featureView == nil {
			return nil, &ReferenceError{Kind: constants.Object_Kind_FeatureService, Name: s.Name, RefKind: constants.Object_Kind_FeatureView, Ref: projection.FeatureViewName}
		}
		if len(projection.Features) == 0 {
			featureNamesMap[featureView.Name] = append(featureNamesMap[featureView.Name], featureView.GetFeatureNames()...)
			continue
		}
		for _, name := range projection.Features {
			if _, ok := featureView.GetField(name); !ok {
				return nil, &ReferenceError{Kind: constants.Object_Kind_FeatureService, Name: s.Name, RefKind: "feature", Ref: fmt.Sprintf("%s:%s", featureView.Name, name)}
			}
			featureNamesMap[featureView.Name] = append(featureNamesMap[featureView.Name], name)
		}
	}
	return featureNamesMap, nil
}

// GetJoinKeys returns the distinct join keys across all projected views.
func (s *FeatureService) GetJoinKeys(p *Project) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, projection := range s.Features {
		featureView := p.GetFeatureView(projection.FeatureViewName)
		if featureView == nil {
			continue
		}
		for _, key := range featureView.GetJoinKeys() {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

func (s *FeatureService) ToAPI(projectName string) *api.FeatureService {
	service := &api.FeatureService{
		ProjectName: projectName,
		Name:        s.Name,
		Owner:       s.Owner,
		Description: s.Description,
		Tags:        copyTags(s.Tags),
	}
	for _, projection := range s.Features {
		service.Projections = append(service.Projections, &api.FeatureViewProjection{
			FeatureViewName: projection.FeatureViewName,
			Features:        append([]string(nil), projection.Features...),
		})
	}
	return service
}
