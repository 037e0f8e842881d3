package registry

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"fortio.org/assert"
	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/domain"
)

func testEntity() *domain.Entity {
	return &domain.Entity{Name: "zipcode", ValueType: constants.FS_INT64, JoinKeys: []string{"zipcode"}}
}

func testSource() *domain.RedshiftSource {
	return &domain.RedshiftSource{
		Table:                  "zipcode_features",
		TimestampField:         "event_timestamp",
		CreatedTimestampColumn: "created_timestamp",
		Schema:                 "spectrum",
		Database:               "dev",
	}
}

func testView(entity *domain.Entity, source domain.DataSource) *domain.FeatureView {
	return &domain.FeatureView{
		Name:     "zipcode_features",
		Entities: []*domain.Entity{entity},
		TTL:      3650 * 24 * time.Hour,
		Schema: []domain.Field{
			{Name: "city", Dtype: constants.FS_STRING},
			{Name: "population", Dtype: constants.FS_INT64},
		},
		Source: source,
		Online: true,
	}
}

func TestValidateIncludesViewSource(t *testing.T) {
	entity := testEntity()
	set, err := Validate([]domain.Object{entity, testView(entity, testSource())})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(set.DataSources), 1)
	assert.Equal(t, set.DataSources[0].GetName(), "zipcode_features")
}

func TestValidateReferenceError(t *testing.T) {
	_, err := Validate([]domain.Object{testView(testEntity(), testSource())})
	var refErr *domain.ReferenceError
	assert.True(t, errors.As(err, &refErr), fmt.Sprint(err))
	assert.Equal(t, refErr.Ref, "zipcode")
	assert.Equal(t, refErr.RefKind, constants.Object_Kind_Entity)

	entity := testEntity()
	_, err = Validate([]domain.Object{entity, testView(entity, domain.SourceRef("missing_source"))})
	assert.True(t, errors.As(err, &refErr), fmt.Sprint(err))
	assert.Equal(t, refErr.Ref, "missing_source")

	// a reference resolves by name
	set, err := Validate([]domain.Object{entity, testSource(), testView(domain.EntityRef("zipcode"), domain.SourceRef("zipcode_features"))})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(set.FeatureViews), 1)
}

func TestValidateDuplicateName(t *testing.T) {
	first := testEntity()
	second := &domain.Entity{Name: "zipcode", ValueType: constants.FS_STRING, JoinKeys: []string{"zip"}}
	_, err := Validate([]domain.Object{first, second})
	var dupErr *domain.DuplicateNameError
	assert.True(t, errors.As(err, &dupErr), fmt.Sprint(err))
	assert.Equal(t, dupErr.Name, "zipcode")

	// the same declaration listed twice is fine
	set, err := Validate([]domain.Object{first, first, testEntity()})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(set.Entities), 1)

	// names are unique per kind
	entity := testEntity()
	view := testView(entity, testSource())
	view.Name = "zipcode"
	_, err = Validate([]domain.Object{entity, view})
	if err != nil {
		t.Fatal(err)
	}

	// identical views and services declared twice, e.g. once in code and once
	// in a declaration file
	viewA := testView(entity, testSource())
	viewB := testView(domain.EntityRef("zipcode"), domain.SourceRef("zipcode_features"))
	serviceA := &domain.FeatureService{Name: "zipcode_service", Features: []domain.FeatureViewProjection{viewA.Select("city")}}
	serviceB := &domain.FeatureService{Name: "zipcode_service", Features: []domain.FeatureViewProjection{viewB.Select("city")}}
	set, err = Validate([]domain.Object{entity, viewA, viewB, serviceA, serviceB})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(set.FeatureViews), 1)
	assert.Equal(t, len(set.FeatureServices), 1)

	viewB = testView(entity, testSource())
	viewB.TTL = time.Hour
	_, err = Validate([]domain.Object{entity, viewA, viewB})
	assert.True(t, errors.As(err, &dupErr), fmt.Sprint(err))
	assert.Equal(t, dupErr.Kind, constants.Object_Kind_FeatureView)

	serviceB = &domain.FeatureService{Name: "zipcode_service", Features: []domain.FeatureViewProjection{viewA.Select("city", "state")}}
	_, err = Validate([]domain.Object{entity, viewA, serviceA, serviceB})
	assert.True(t, errors.As(err, &dupErr), fmt.Sprint(err))
	assert.Equal(t, dupErr.Kind, constants.Object_Kind_FeatureService)
}

func TestValidateTypeError(t *testing.T) {
	entity := testEntity()
	view := testView(entity, testSource())
	view.Schema = append(view.Schema, domain.Field{Name: "score", Dtype: constants.FSType(-1)})
	_, err := Validate([]domain.Object{entity, view})
	var typeErr *domain.TypeError
	assert.True(t, errors.As(err, &typeErr), fmt.Sprint(err))
	assert.Equal(t, typeErr.Field, "score")

	arrayEntity := &domain.Entity{Name: "tags", ValueType: constants.FS_ARRAY_STRING, JoinKeys: []string{"tags"}}
	_, err = Validate([]domain.Object{arrayEntity})
	assert.True(t, errors.As(err, &typeErr), fmt.Sprint(err))
	assert.Equal(t, typeErr.Name, "tags")
}

func TestValidateValidationError(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView)
	}{
		{"negative ttl", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { v.TTL = -time.Hour }},
		{"sub-second ttl", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { v.TTL = 500 * time.Millisecond }},
		{"fractional ttl", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { v.TTL = time.Hour + time.Millisecond }},
		{"empty join keys", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { e.JoinKeys = nil }},
		{"duplicate field", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) {
			v.Schema = append(v.Schema, domain.Field{Name: "city", Dtype: constants.FS_STRING})
		}},
		{"field shadows join key", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) {
			v.Schema = append(v.Schema, domain.Field{Name: "zipcode", Dtype: constants.FS_INT64})
		}},
		{"missing timestamp field", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { s.TimestampField = "" }},
		{"missing table", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) {
			s.Name = "zipcode_source"
			s.Table = ""
		}},
		{"bad view name", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { v.Name = "Zipcode-Features" }},
		{"no entities", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { v.Entities = nil }},
		{"no source", func(e *domain.Entity, s *domain.RedshiftSource, v *domain.FeatureView) { v.Source = nil }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			entity := testEntity()
			source := testSource()
			view := testView(entity, source)
			c.mutate(entity, source, view)
			_, err := Validate([]domain.Object{entity, view})
			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr), fmt.Sprint(err))
		})
	}
}

func TestValidateZeroTTL(t *testing.T) {
	entity := testEntity()
	view := testView(entity, testSource())
	view.TTL = 0
	if _, err := Validate([]domain.Object{entity, view}); err != nil {
		t.Fatal(err)
	}
}

func TestValidateFeatureService(t *testing.T) {
	entity := testEntity()
	view := testView(entity, testSource())
	service := &domain.FeatureService{
		Name:     "credit_scoring_v1",
		Features: []domain.FeatureViewProjection{view.Select("city")},
	}
	if _, err := Validate([]domain.Object{entity, view, service}); err != nil {
		t.Fatal(err)
	}

	service.Features = []domain.FeatureViewProjection{view.Select("income")}
	_, err := Validate([]domain.Object{entity, view, service})
	var refErr *domain.ReferenceError
	assert.True(t, errors.As(err, &refErr), fmt.Sprint(err))
	assert.Equal(t, refErr.Ref, "zipcode_features:income")

	service.Features = []domain.FeatureViewProjection{{FeatureViewName: "credit_history"}}
	_, err = Validate([]domain.Object{entity, view, service})
	assert.True(t, errors.As(err, &refErr), fmt.Sprint(err))
	assert.Equal(t, refErr.Ref, "credit_history")
}

func TestValidateObjectName(t *testing.T) {
	assert.True(t, ValidateObjectName("missed_payments_2y"))
	assert.True(t, ValidateObjectName("_internal"))
	assert.False(t, ValidateObjectName("2y_missed"))
	assert.False(t, ValidateObjectName("City"))
	assert.False(t, ValidateObjectName(""))
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ValidateObjectName(string(long)))
	assert.True(t, ValidateObjectName(string(long[:63])))
}
