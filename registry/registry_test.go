package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"fortio.org/assert"
	"github.com/antihax/optional"
	"github.com/credit-scoring/feature-repo/api"
	"github.com/credit-scoring/feature-repo/codec"
	"github.com/credit-scoring/feature-repo/constants"
	"github.com/credit-scoring/feature-repo/dao"
	"github.com/credit-scoring/feature-repo/datasource/badgerdb"
	"github.com/credit-scoring/feature-repo/datasource/sqldb"
	"github.com/credit-scoring/feature-repo/domain"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newTestRegistries(t *testing.T) map[string]dao.RegistryDao {
	daos := make(map[string]dao.RegistryDao)

	fileDao, err := dao.NewRegistryDao(dao.DaoConfig{
		RegistryType: constants.Registry_Type_File,
		ProjectName:  "credit_scoring",
		FilePath:     filepath.Join(t.TempDir(), "registry.db"),
		Codec:        codec.ProtoCodec{},
	})
	if err != nil {
		t.Fatal(err)
	}
	daos["file"] = fileDao

	sqlName := "registry_test_" + t.Name()
	if err := sqldb.RegisterSQLDB(sqlName, sqldb.Driver_SQLite, filepath.Join(t.TempDir(), "registry.sqlite")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqldb.RemoveSQLDB(sqlName) })
	sqlDao, err := dao.NewRegistryDao(dao.DaoConfig{
		RegistryType: constants.Registry_Type_SQL,
		ProjectName:  "credit_scoring",
		SQLName:      sqlName,
	})
	if err != nil {
		t.Fatal(err)
	}
	daos["sqlite"] = sqlDao

	badgerName := "registry_test_" + t.Name()
	if err := badgerdb.RegisterBadger(badgerName, ""); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { badgerdb.RemoveBadger(badgerName) })
	badgerDao, err := dao.NewRegistryDao(dao.DaoConfig{
		RegistryType: constants.Registry_Type_Badger,
		ProjectName:  "credit_scoring",
		BadgerName:   badgerName,
	})
	if err != nil {
		t.Fatal(err)
	}
	daos["badger"] = badgerDao

	return daos
}

func declarations() []domain.Object {
	entity := testEntity()
	view := testView(entity, testSource())
	view.Tags = map[string]string{"team": "risk"}
	return []domain.Object{entity, view}
}

func TestRegistryApply(t *testing.T) {
	ctx := context.Background()
	for name, registryDao := range newTestRegistries(t) {
		t.Run(name, func(t *testing.T) {
			defer registryDao.Close()
			c := &clock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
			r := NewRegistry("credit_scoring", registryDao, WithClock(c.Now))

			plan, err := r.Plan(ctx, declarations())
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, plan.Count(Action_Create), 3)
			snapshot, err := r.Snapshot(ctx)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, len(snapshot.FeatureViews), 0)

			plan, err = r.Apply(ctx, declarations())
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, plan.Count(Action_Create), 3)
			action, ok := plan.Find(constants.Object_Kind_DataSource, "zipcode_features")
			assert.True(t, ok)
			assert.Equal(t, action.Type, Action_Create)

			view, err := r.GetFeatureView(ctx, "zipcode_features")
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, view.Entities, []string{"zipcode"})
			assert.Equal(t, view.Ttl, int64(3650*24*3600))
			assert.Equal(t, view.Source, "zipcode_features")
			assert.Equal(t, view.ProjectName, "credit_scoring")
			assert.Equal(t, view.CreatedAt.Equal(c.now), true)
			assert.True(t, view.FeatureViewId != "")
			id := view.FeatureViewId

			// re-applying the same declarations changes nothing
			c.now = c.now.Add(time.Hour)
			plan, err = r.Apply(ctx, declarations())
			if err != nil {
				t.Fatal(err)
			}
			assert.False(t, plan.HasChanges(), plan.String())
			assert.Equal(t, plan.Count(Action_Unchanged), 3)

			// an update keeps the id and created timestamp
			objs := declarations()
			objs[1].(*domain.FeatureView).Schema = append(objs[1].(*domain.FeatureView).Schema, domain.Field{Name: "total_wages", Dtype: constants.FS_INT64})
			plan, err = r.Apply(ctx, objs)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, plan.Count(Action_Update), 1)
			view, err = r.GetFeatureView(ctx, "zipcode_features")
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, view.FeatureViewId, id)
			assert.Equal(t, len(view.Fields), 3)
			assert.Equal(t, view.Fields[2].Name, "total_wages")
			assert.True(t, view.LastUpdatedAt.After(view.CreatedAt))

			// without pruning the view stays registered
			plan, err = r.Apply(ctx, []domain.Object{testEntity()}, WithPrune(false))
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, plan.Count(Action_Delete), 0)
			if _, err := r.GetFeatureView(ctx, "zipcode_features"); err != nil {
				t.Fatal(err)
			}

			// pruning deletes views before their sources
			plan, err = r.Apply(ctx, []domain.Object{testEntity()})
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, plan.Count(Action_Delete), 2)
			assert.Equal(t, plan.Actions[1].Kind, constants.Object_Kind_FeatureView)
			assert.Equal(t, plan.Actions[2].Kind, constants.Object_Kind_DataSource)
			_, err = r.GetFeatureView(ctx, "zipcode_features")
			assert.True(t, errors.Is(err, ErrNotFound), fmt.Sprint(err))

			plan, err = r.Teardown(ctx)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, plan.Count(Action_Delete), 1)
			snapshot, err = r.Snapshot(ctx)
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, len(snapshot.FeatureEntities), 0)
		})
	}
}

func TestRegistryApplyInvalid(t *testing.T) {
	ctx := context.Background()
	registryDao, err := dao.NewRegistryDao(dao.DaoConfig{
		RegistryType: constants.Registry_Type_File,
		ProjectName:  "credit_scoring",
		FilePath:     filepath.Join(t.TempDir(), "registry.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRegistry("credit_scoring", registryDao)

	_, err = r.Apply(ctx, []domain.Object{testView(testEntity(), testSource())})
	var refErr *domain.ReferenceError
	assert.True(t, errors.As(err, &refErr), fmt.Sprint(err))

	// a sub-second ttl would be stored as zero, which means no expiry
	entity := testEntity()
	view := testView(entity, testSource())
	view.TTL = 500 * time.Millisecond
	_, err = r.Apply(ctx, []domain.Object{entity, view})
	var validationErr *domain.ValidationError
	assert.True(t, errors.As(err, &validationErr), fmt.Sprint(err))

	snapshot, err := r.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(snapshot.Datasources), 0)
}

func TestRegistryRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{constants.Codec_JSON, constants.Codec_YAML, constants.Codec_Proto} {
		t.Run(name, func(t *testing.T) {
			c, err := codec.New(name)
			if err != nil {
				t.Fatal(err)
			}
			registryDao, err := dao.NewRegistryDao(dao.DaoConfig{
				RegistryType: constants.Registry_Type_File,
				ProjectName:  "credit_scoring",
				FilePath:     filepath.Join(t.TempDir(), "registry.db"),
				Codec:        c,
			})
			if err != nil {
				t.Fatal(err)
			}
			r := NewRegistry("credit_scoring", registryDao, WithCodec(c))
			objs := declarations()
			if _, err := r.Apply(ctx, objs); err != nil {
				t.Fatal(err)
			}

			project, err := r.LoadProject(ctx)
			if err != nil {
				t.Fatal(err)
			}
			declared := objs[1].(*domain.FeatureView)
			loaded := project.GetFeatureView("zipcode_features")
			assert.True(t, loaded != nil)
			assert.Equal(t, loaded.GetEntityNames(), declared.GetEntityNames())
			assert.Equal(t, loaded.GetFields(), declared.GetFields())
			assert.Equal(t, loaded.TTL, declared.TTL)
			assert.Equal(t, loaded.Source.GetName(), "zipcode_features")
			assert.Equal(t, loaded.Tags, declared.Tags)
		})
	}
}

func TestListFeatureViews(t *testing.T) {
	ctx := context.Background()
	registryDao, err := dao.NewRegistryDao(dao.DaoConfig{
		RegistryType: constants.Registry_Type_File,
		ProjectName:  "credit_scoring",
		FilePath:     filepath.Join(t.TempDir(), "registry.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRegistry("credit_scoring", registryDao)

	zipcode := testEntity()
	dobSsn := &domain.Entity{Name: "dob_ssn", ValueType: constants.FS_STRING, JoinKeys: []string{"dob_ssn"}}
	zipcodeView := testView(zipcode, testSource())
	zipcodeView.Tags = map[string]string{"team": "geo"}
	creditHistory := &domain.FeatureView{
		Name:     "credit_history",
		Entities: []*domain.Entity{dobSsn},
		TTL:      24 * time.Hour,
		Schema: []domain.Field{
			{Name: "credit_card_due", Dtype: constants.FS_INT64},
			{Name: "bankruptcies", Dtype: constants.FS_INT64},
		},
		Source: &domain.RedshiftSource{Table: "credit_history", TimestampField: "event_timestamp"},
		Tags:   map[string]string{"team": "risk", "pii": "true"},
	}
	if _, err := r.Apply(ctx, []domain.Object{zipcode, dobSsn, zipcodeView, creditHistory}); err != nil {
		t.Fatal(err)
	}

	names := func(resp api.ListFeatureViewsResponse) []string {
		var result []string
		for _, view := range resp.FeatureViews {
			result = append(result, view.Name)
		}
		return result
	}

	resp, err := r.ListFeatureViews(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, resp.TotalCount, 2)
	assert.Equal(t, names(resp), []string{"credit_history", "zipcode_features"})

	resp, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Entity: optional.NewString("dob_ssn")})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, names(resp), []string{"credit_history"})

	resp, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Tag: optional.NewString("team=geo")})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, names(resp), []string{"zipcode_features"})

	resp, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Tag: optional.NewString("pii")})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, names(resp), []string{"credit_history"})

	resp, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Filter: optional.NewString(`ttl_seconds > 86400 && "city" in fields`)})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, names(resp), []string{"zipcode_features"})

	resp, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Pagesize: optional.NewInt32(1), Pagenumber: optional.NewInt32(2)})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, resp.TotalCount, 2)
	assert.Equal(t, names(resp), []string{"zipcode_features"})

	resp, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Pagesize: optional.NewInt32(1), Pagenumber: optional.NewInt32(3)})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(resp.FeatureViews), 0)

	_, err = r.ListFeatureViews(ctx, &api.ListFeatureViewsOpts{Filter: optional.NewString(`owner_email == "a"`)})
	assert.True(t, err != nil)
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	registryDao, err := dao.NewRegistryDao(dao.DaoConfig{
		RegistryType: constants.Registry_Type_File,
		ProjectName:  "credit_scoring",
		FilePath:     filepath.Join(t.TempDir(), "registry.db"),
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRegistry("credit_scoring", registryDao)

	_, err = r.GetEntity(ctx, "zipcode")
	assert.True(t, errors.Is(err, ErrNotFound), fmt.Sprint(err))
	_, err = r.GetDataSource(ctx, "zipcode_features")
	assert.True(t, errors.Is(err, ErrNotFound), fmt.Sprint(err))
	_, err = r.GetFeatureService(ctx, "credit_scoring_v1")
	assert.True(t, errors.Is(err, ErrNotFound), fmt.Sprint(err))
}
