// Package codec encodes registry payloads. Every codec accepts any value that
// marshals to a JSON object.
package codec

import (
	"fmt"

	"github.com/credit-scoring/feature-repo/constants"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Codec interface {
	Name() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

func New(name string) (Codec, error) {
	switch name {
	case constants.Codec_JSON:
		return JSONCodec{}, nil
	case constants.Codec_YAML:
		return YAMLCodec{}, nil
	case constants.Codec_Proto, "":
		return ProtoCodec{}, nil
	}
	return nil, fmt.Errorf("not support codec, name:%s", name)
}

type JSONCodec struct{}

func (JSONCodec) Name() string { return constants.Codec_JSON }

func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

type YAMLCodec struct{}

func (YAMLCodec) Name() string { return constants.Codec_YAML }

func (YAMLCodec) Marshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Unmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

// ProtoCodec stores a value as a binary google.protobuf.Struct. The value goes
// through its JSON form, so json tags decide the field names.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return constants.Codec_Proto }

func (ProtoCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("proto codec needs an object value, err=%v", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

func (ProtoCodec) Unmarshal(data []byte, v interface{}) error {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return err
	}
	js, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(js, v)
}
