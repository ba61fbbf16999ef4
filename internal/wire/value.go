package wire

import (
	"fmt"
	"math"
	"math/big"

	"github.com/specialistvlad/gridclosure/internal/model"
	"github.com/zclconf/go-cty/cty"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// marshalOptions keeps map-valued fields in sorted key order.
var marshalOptions = proto.MarshalOptions{Deterministic: true}

// ValueToProto converts a cty value into a google.protobuf.Value. Unknown
// values, capsules, numbers outside float64 range and integers float64
// cannot hold exactly return an error.
func ValueToProto(v cty.Value) (*structpb.Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return structpb.NewNullValue(), nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("cannot encode unknown value of type %s", v.Type().FriendlyName())
	}
	v, _ = v.Unmark()

	ty := v.Type()
	switch {
	case ty == cty.String:
		return structpb.NewStringValue(v.AsString()), nil
	case ty == cty.Bool:
		return structpb.NewBoolValue(v.True()), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		f, acc := bf.Float64()
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("number %s overflows float64", bf.String())
		}
		// Fractions are rounded to the nearest float64; integers must fit exactly.
		if bf.IsInt() && acc != big.Exact {
			return nil, fmt.Errorf("integer %s cannot be represented exactly as float64", bf.Text('f', 0))
		}
		return structpb.NewNumberValue(f), nil
	case ty.IsObjectType() || ty.IsMapType():
		s, err := objectToProto(v)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(s), nil
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		values := make([]*structpb.Value, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			pv, err := ValueToProto(elem)
			if err != nil {
				return nil, err
			}
			values = append(values, pv)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	default:
		return nil, fmt.Errorf("cannot encode value of type %s", ty.FriendlyName())
	}
}

func objectToProto(v cty.Value) (*structpb.Struct, error) {
	fields := make(map[string]*structpb.Value, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, elem := it.Element()
		pv, err := ValueToProto(elem)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k.AsString(), err)
		}
		fields[k.AsString()] = pv
	}
	return &structpb.Struct{Fields: fields}, nil
}

// StructToProto converts a model.Struct into a google.protobuf.Struct.
func StructToProto(s model.Struct) (*structpb.Struct, error) {
	return objectToProto(s.Value())
}

func (e *encoder) structField(num protowire.Number, s model.Struct) error {
	if s.Len() == 0 {
		return nil
	}
	pb, err := StructToProto(s)
	if err != nil {
		return err
	}
	raw, err := marshalOptions.Marshal(pb)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	e.bytes(num, raw)
	return nil
}

func (e *encoder) valueField(num protowire.Number, v cty.Value) error {
	if v == cty.NilVal {
		return nil
	}
	pb, err := ValueToProto(v)
	if err != nil {
		return err
	}
	raw, err := marshalOptions.Marshal(pb)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	e.bytes(num, raw)
	return nil
}
