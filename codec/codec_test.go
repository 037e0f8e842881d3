package codec

import (
	"testing"
	"time"

	"fortio.org/assert"
	"github.com/credit-scoring/feature-repo/api"
)

func TestCodecsKeepFeatureView(t *testing.T) {
	view := &api.FeatureView{
		FeatureViewId: "0b6b3c4e-0d0e-4d57-9d35-7d8b1c5b4a11",
		Name:          "zipcode_features",
		Entities:      []string{"zipcode"},
		Source:        "zipcode_features",
		Online:        true,
		Ttl:           int64((3650 * 24 * time.Hour).Seconds()),
		Tags:          map[string]string{"team": "risk"},
		Fields: []*api.FeatureViewFields{
			{Name: "city", Type: "STRING", Position: 1},
			{Name: "population", Type: "INT64", Position: 2},
		},
		CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	for _, name := range []string{"json", "yaml", "proto"} {
		c, err := New(name)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, c.Name(), name)

		data, err := c.Marshal(view)
		if err != nil {
			t.Fatal(name, err)
		}
		got := &api.FeatureView{}
		if err := c.Unmarshal(data, got); err != nil {
			t.Fatal(name, err)
		}
		assert.Equal(t, got.Name, view.Name, name)
		assert.Equal(t, got.Entities, view.Entities, name)
		assert.Equal(t, got.Ttl, view.Ttl, name)
		assert.Equal(t, got.Tags, view.Tags, name)
		assert.Equal(t, len(got.Fields), 2, name)
		assert.Equal(t, got.Fields[1].Name, "population", name)
		assert.Equal(t, got.Fields[1].Type, "INT64", name)
		assert.True(t, got.CreatedAt.Equal(view.CreatedAt), name)
	}
}

func TestNewUnknownCodec(t *testing.T) {
	_, err := New("xml")
	assert.True(t, err != nil)

	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, c.Name(), "proto")
}

func TestProtoCodecRejectsScalars(t *testing.T) {
	_, err := ProtoCodec{}.Marshal([]string{"a"})
	assert.True(t, err != nil)
}
