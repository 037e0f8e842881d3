package constants

import (
	"fmt"
	"strings"
)

type FSType int

const (
	FS_INT32 FSType = iota + 1 // int32
	FS_INT64                   // int64
	FS_FLOAT                   // float32
	FS_DOUBLE                  // float64
	FS_STRING
	FS_BOOLEAN
	FS_TIMESTAMP
	FS_BYTES
	FS_ARRAY_INT32
	FS_ARRAY_INT64
	FS_ARRAY_FLOAT
	FS_ARRAY_DOUBLE
	FS_ARRAY_STRING
	FS_ARRAY_BYTES
)

var fsTypeNames = map[FSType]string{
	FS_INT32:        "INT32",
	FS_INT64:        "INT64",
	FS_FLOAT:        "FLOAT",
	FS_DOUBLE:       "DOUBLE",
	FS_STRING:       "STRING",
	FS_BOOLEAN:      "BOOLEAN",
	FS_TIMESTAMP:    "TIMESTAMP",
	FS_BYTES:        "BYTES",
	FS_ARRAY_INT32:  "ARRAY<INT32>",
	FS_ARRAY_INT64:  "ARRAY<INT64>",
	FS_ARRAY_FLOAT:  "ARRAY<FLOAT>",
	FS_ARRAY_DOUBLE: "ARRAY<DOUBLE>",
	FS_ARRAY_STRING: "ARRAY<STRING>",
	FS_ARRAY_BYTES:  "ARRAY<BYTES>",
}

// aliases accepted when parsing declaration files, keyed by upper-case spelling
var fsTypeAliases = map[string]FSType{
	"FLOAT32":        FS_FLOAT,
	"FLOAT64":        FS_DOUBLE,
	"BOOL":           FS_BOOLEAN,
	"UNIXTIMESTAMP":  FS_TIMESTAMP,
	"UNIX_TIMESTAMP": FS_TIMESTAMP,
}

func (t FSType) String() string {
	if name, ok := fsTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FSType(%d)", int(t))
}

func (t FSType) IsValid() bool {
	_, ok := fsTypeNames[t]
	return ok
}

func (t FSType) IsArray() bool {
	return t >= FS_ARRAY_INT32 && t <= FS_ARRAY_BYTES
}

// Elem returns the element type of an array type, or t itself for scalars.
func (t FSType) Elem() FSType {
	switch t {
	case FS_ARRAY_INT32:
		return FS_INT32
	case FS_ARRAY_INT64:
		return FS_INT64
	case FS_ARRAY_FLOAT:
		return FS_FLOAT
	case FS_ARRAY_DOUBLE:
		return FS_DOUBLE
	case FS_ARRAY_STRING:
		return FS_STRING
	case FS_ARRAY_BYTES:
		return FS_BYTES
	}
	return t
}

// ParseFSType accepts the canonical names (INT64, ARRAY<STRING>) as well as the
// dtype spelling used in feature definitions (Int64, Float32, Array(String)).
func ParseFSType(s string) (FSType, bool) {
	name := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if strings.HasPrefix(name, "ARRAY(") && strings.HasSuffix(name, ")") {
		name = "ARRAY<" + name[len("ARRAY("):len(name)-1] + ">"
	}
	if strings.HasPrefix(name, "ARRAY<") && strings.HasSuffix(name, ">") {
		elem, ok := ParseFSType(name[len("ARRAY<") : len(name)-1])
		if !ok || elem.IsArray() {
			return 0, false
		}
		switch elem {
		case FS_INT32:
			return FS_ARRAY_INT32, true
		case FS_INT64:
			return FS_ARRAY_INT64, true
		case FS_FLOAT:
			return FS_ARRAY_FLOAT, true
		case FS_DOUBLE:
			return FS_ARRAY_DOUBLE, true
		case FS_STRING:
			return FS_ARRAY_STRING, true
		case FS_BYTES:
			return FS_ARRAY_BYTES, true
		}
		return 0, false
	}
	if t, ok := fsTypeAliases[name]; ok {
		return t, true
	}
	for t, n := range fsTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

const (
	Datasource_Type_Redshift = "redshift"
	Datasource_Type_File     = "file"
)

const (
	Object_Kind_Entity         = "entity"
	Object_Kind_DataSource     = "data_source"
	Object_Kind_FeatureView    = "feature_view"
	Object_Kind_FeatureService = "feature_service"
)

// ObjectKinds lists the registry object kinds in dependency order.
var ObjectKinds = []string{
	Object_Kind_Entity,
	Object_Kind_DataSource,
	Object_Kind_FeatureView,
	Object_Kind_FeatureService,
}

const (
	Registry_Type_File       = "file"
	Registry_Type_SQL        = "sql"
	Registry_Type_Redis      = "redis"
	Registry_Type_Badger     = "badger"
	Registry_Type_TableStore = "tablestore"
)

const (
	Codec_JSON  = "json"
	Codec_YAML  = "yaml"
	Codec_Proto = "proto"
)
