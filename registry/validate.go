package registry

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/domain"
	"github.com/go-playground/validator/v10"
)

// DeclarationSet is a validated set of declarations, grouped by kind in
// declaration order.
type DeclarationSet struct {
	Entities        []*domain.Entity
	DataSources     []domain.DataSource
	FeatureViews    []*domain.FeatureView
	FeatureServices []*domain.FeatureService
}

// Validate checks a declaration set before it is registered. Sources used by
// feature views are registered with them even when not listed. All problems
// are reported together; use errors.As to pick out ReferenceError, TypeError,
// DuplicateNameError or ValidationError.
func Validate(objects []domain.Object) (*DeclarationSet, error) {
	set := &DeclarationSet{}
	var errs []error

	entities := make(map[string]*domain.Entity)
	sources := make(map[string]domain.DataSource)
	views := make(map[string]*domain.FeatureView)
	services := make(map[string]*domain.FeatureService)

	for _, o := range objects {
		if o == nil || (reflect.ValueOf(o).Kind() == reflect.Ptr && reflect.ValueOf(o).IsNil()) {
			continue
		}
		if domain.IsReference(o) {
			errs = append(errs, &domain.ValidationError{Kind: o.GetKind(), Name: o.GetName(), Reasons: []string{"a reference cannot be registered on its own"}})
			continue
		}
		switch obj := o.(type) {
		case *domain.Entity:
			if prev, ok := entities[obj.Name]; ok {
				if prev != obj && !sameDefinition(prev.ToAPI(""), obj.ToAPI("")) {
					errs = append(errs, &domain.DuplicateNameError{Kind: obj.GetKind(), Name: obj.Name})
				}
				continue
			}
			entities[obj.Name] = obj
			set.Entities = append(set.Entities, obj)
		case domain.DataSource:
			if err := addSource(set, sources, obj); err != nil {
				errs = append(errs, err)
			}
		case *domain.FeatureView:
			if prev, ok := views[obj.Name]; ok {
				if prev != obj && !sameDefinition(prev.ToAPI(""), obj.ToAPI("")) {
					errs = append(errs, &domain.DuplicateNameError{Kind: obj.GetKind(), Name: obj.Name})
				}
				continue
			}
			views[obj.Name] = obj
			set.FeatureViews = append(set.FeatureViews, obj)
		case *domain.FeatureService:
			if prev, ok := services[obj.Name]; ok {
				if prev != obj && !sameDefinition(prev.ToAPI(""), obj.ToAPI("")) {
					errs = append(errs, &domain.DuplicateNameError{Kind: obj.GetKind(), Name: obj.Name})
				}
				continue
			}
			services[obj.Name] = obj
			set.FeatureServices = append(set.FeatureServices, obj)
		default:
			errs = append(errs, fmt.Errorf("not support declaration type %T", o))
		}
	}

	for _, view := range set.FeatureViews {
		if view.Source == nil || domain.IsReference(view.Source) {
			continue
		}
		if err := addSource(set, sources, view.Source); err != nil {
			errs = append(errs, err)
		}
	}

	for _, entity := range set.Entities {
		errs = append(errs, validateEntity(entity)...)
	}
	for _, source := range set.DataSources {
		errs = append(errs, validateSource(source)...)
	}
	for _, view := range set.FeatureViews {
		errs = append(errs, validateFeatureView(view, entities, sources)...)
	}
	for _, service := range set.FeatureServices {
		errs = append(errs, validateFeatureService(service, views)...)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

func addSource(set *DeclarationSet, sources map[string]domain.DataSource, source domain.DataSource) error {
	name := source.GetName()
	if prev, ok := sources[name]; ok {
		if prev != source && !sameDefinition(prev.ToAPI(""), source.ToAPI("")) {
			return &domain.DuplicateNameError{Kind: source.GetKind(), Name: name}
		}
		return nil
	}
	sources[name] = source
	set.DataSources = append(set.DataSources, source)
	return nil
}

// sameDefinition reports whether two declarations under one name describe the
// same object, so that repeating a declaration is not a conflict.
func sameDefinition(a, b interface{}) bool {
	fa, err := fingerprint(a)
	if err != nil {
		return false
	}
	fb, err := fingerprint(b)
	if err != nil {
		return false
	}
	return fa == fb
}

func structReasons(err error) []string {
	var reasons []string
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			if fe.Param() != "" {
				reasons = append(reasons, fmt.Sprintf("%s failed on %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			} else {
				reasons = append(reasons, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		}
	} else if err != nil {
		reasons = append(reasons, err.Error())
	}
	return reasons
}

func validateEntity(entity *domain.Entity) []error {
	var errs []error
	reasons := structReasons(V().Struct(entity))
	seen := make(map[string]bool)
	for _, key := range entity.JoinKeys {
		if seen[key] {
			reasons = append(reasons, fmt.Sprintf("duplicate join key %s", key))
		}
		seen[key] = true
	}
	if len(reasons) > 0 {
		errs = append(errs, &domain.ValidationError{Kind: entity.GetKind(), Name: entity.Name, Reasons: reasons})
	}
	if !entity.ValueType.IsValid() || entity.ValueType.IsArray() {
		errs = append(errs, &domain.TypeError{Kind: entity.GetKind(), Name: entity.Name, Type: entity.ValueType.String()})
	}
	return errs
}

func validateSource(source domain.DataSource) []error {
	reasons := structReasons(V().Struct(source))
	if !ValidateObjectName(source.GetName()) {
		reasons = append(reasons, fmt.Sprintf("name %q must match %s", source.GetName(), objectNameRegex))
	}
	if err := source.Validate(); err != nil {
		reasons = append(reasons, err.Error())
	}
	if len(reasons) > 0 {
		return []error{&domain.ValidationError{Kind: source.GetKind(), Name: source.GetName(), Reasons: reasons}}
	}
	return nil
}

func validateFeatureView(view *domain.FeatureView, entities map[string]*domain.Entity, sources map[string]domain.DataSource) []error {
	var errs []error
	kind := view.GetKind()
	reasons := structReasons(V().Struct(view))
	if view.TTL%time.Second != 0 {
		reasons = append(reasons, fmt.Sprintf("ttl %s is not a whole number of seconds", view.TTL))
	}

	if view.Source == nil {
		reasons = append(reasons, "source is required")
	} else if _, ok := sources[view.Source.GetName()]; !ok {
		errs = append(errs, &domain.ReferenceError{Kind: kind, Name: view.Name, RefKind: constants.Object_Kind_DataSource, Ref: view.Source.GetName()})
	}

	joinKeys := make(map[string]bool)
	seenEntities := make(map[string]bool)
	for _, entity := range view.Entities {
		if entity == nil {
			reasons = append(reasons, "nil entity")
			continue
		}
		if seenEntities[entity.Name] {
			reasons = append(reasons, fmt.Sprintf("entity %s listed twice", entity.Name))
		}
		seenEntities[entity.Name] = true
		declared, ok := entities[entity.Name]
		if !ok {
			errs = append(errs, &domain.ReferenceError{Kind: kind, Name: view.Name, RefKind: constants.Object_Kind_Entity, Ref: entity.Name})
			continue
		}
		for _, key := range declared.JoinKeys {
			joinKeys[key] = true
		}
	}

	seenFields := make(map[string]bool)
	for _, field := range view.Schema {
		if seenFields[field.Name] {
			reasons = append(reasons, fmt.Sprintf("duplicate field %s", field.Name))
		}
		seenFields[field.Name] = true
		if joinKeys[field.Name] {
			reasons = append(reasons, fmt.Sprintf("field %s shadows a join key", field.Name))
		}
		if !field.Dtype.IsValid() {
			errs = append(errs, &domain.TypeError{Kind: kind, Name: view.Name, Field: field.Name, Type: field.Dtype.String()})
		}
	}

	if len(reasons) > 0 {
		errs = append(errs, &domain.ValidationError{Kind: kind, Name: view.Name, Reasons: reasons})
	}
	return errs
}

func validateFeatureService(service *domain.FeatureService, views map[string]*domain.FeatureView) []error {
	var errs []error
	kind := service.GetKind()
	reasons := structReasons(V().Struct(service))

	for _, projection := range service.Features {
		view, ok := views[projection.FeatureViewName]
		if !ok {
			if projection.FeatureViewName != "" {
				errs = append(errs, &domain.ReferenceError{Kind: kind, Name: service.Name, RefKind: constants.Object_Kind_FeatureView, Ref: projection.FeatureViewName})
			}
			continue
		}
		for _, name := range projection.Features {
			if _, ok := view.GetField(name); !ok {
				errs = append(errs, &domain.ReferenceError{Kind: kind, Name: service.Name, RefKind: "feature", Ref: view.Name + ":" + name})
			}
		}
	}

	if len(reasons) > 0 {
		errs = append(errs, &domain.ValidationError{Kind: kind, Name: service.Name, Reasons: reasons})
	}
	return errs
}
