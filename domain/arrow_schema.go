package domain

import (
	"github.com/aliyun/aliyun-odps-go-sdk/arrow"
	"github.com/credit-scoring/feature-repo/constants"
)

func arrowType(t constants.FSType) arrow.DataType {
	switch t {
	case constants.FS_INT32:
		return arrow.PrimitiveTypes.Int32
	case constants.FS_INT64:
		return arrow.PrimitiveTypes.Int64
	case constants.FS_FLOAT:
		return arrow.PrimitiveTypes.Float32
	case constants.FS_DOUBLE:
		return arrow.PrimitiveTypes.Float64
	case constants.FS_BOOLEAN:
		return arrow.FixedWidthTypes.Boolean
	case constants.FS_TIMESTAMP:
		return arrow.FixedWidthTypes.Timestamp_us
	case constants.FS_BYTES:
		return arrow.BinaryTypes.Binary
	case constants.FS_STRING:
		return arrow.BinaryTypes.String
	}
	if t.IsArray() {
		return arrow.ListOf(arrowType(t.Elem()))
	}
	return arrow.BinaryTypes.String
}

// ArrowSchema describes rows read through the view: join keys, the event
// timestamp and then the features in schema order.
func (f *FeatureView) ArrowSchema() *arrow.Schema {
	var fields []arrow.Field
	for _, entity := range f.Entities {
		for _, key := range entity.JoinKeys {
			fields = append(fields, arrow.Field{Name: key, Type: arrowType(entity.ValueType)})
		}
	}
	if f.Source != nil && f.Source.GetTimestampField() != "" {
		fields = append(fields, arrow.Field{Name: f.Source.GetTimestampField(), Type: arrow.FixedWidthTypes.Timestamp_us})
	}
	for _, field := range f.Schema {
		fields = append(fields, arrow.Field{Name: field.Name, Type: arrowType(field.Dtype), Nullable: true})
	}

	md := arrow.NewMetadata([]string{"feature_view"}, []string{f.Name})
	return arrow.NewSchema(fields, &md)
}
