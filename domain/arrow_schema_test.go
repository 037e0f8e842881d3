package domain

import (
	"testing"

	"fortio.org/assert"
	"github.com/aliyun/aliyun-odps-go-sdk/arrow"
	"github.com/credit-scoring/feature-repo/constants"
)

func TestArrowSchema(t *testing.T) {
	view := &FeatureView{
		Name:     "credit_history",
		Entities: []*Entity{{Name: "dob_ssn", ValueType: constants.FS_STRING, JoinKeys: []string{"dob_ssn"}}},
		Schema: []Field{
			{Name: "credit_card_due", Dtype: constants.FS_INT64},
			{Name: "score", Dtype: constants.FS_DOUBLE},
			{Name: "categories", Dtype: constants.FS_ARRAY_STRING},
		},
		Source: &RedshiftSource{Table: "credit_history", TimestampField: "event_timestamp"},
	}

	schema := view.ArrowSchema()
	assert.Equal(t, len(schema.Fields()), 5)
	assert.Equal(t, schema.Field(0).Name, "dob_ssn")
	assert.Equal(t, schema.Field(0).Type.ID(), arrow.STRING)
	assert.False(t, schema.Field(0).Nullable)
	assert.Equal(t, schema.Field(1).Name, "event_timestamp")
	assert.Equal(t, schema.Field(1).Type.ID(), arrow.TIMESTAMP)
	assert.Equal(t, schema.Field(2).Type.ID(), arrow.INT64)
	assert.True(t, schema.Field(2).Nullable)
	assert.Equal(t, schema.Field(3).Type.ID(), arrow.FLOAT64)
	assert.Equal(t, schema.Field(4).Type.ID(), arrow.LIST)

	idx := schema.Metadata().FindKey("feature_view")
	assert.Equal(t, schema.Metadata().Values()[idx], "credit_history")
}
