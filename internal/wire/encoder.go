package wire

import (
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// encoder appends protobuf fields to a growing buffer.
type encoder struct {
	b []byte
}

func (e *encoder) string(num protowire.Number, s string) {
	if s == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, s)
}

// repeatedString writes every element, empty ones included, so positions
// survive a round trip.
func (e *encoder) repeatedString(num protowire.Number, ss []string) {
	for _, s := range ss {
		e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
		e.b = protowire.AppendString(e.b, s)
	}
}

func (e *encoder) varint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.varint(num, protowire.EncodeBool(v))
}

func (e *encoder) bytes(num protowire.Number, b []byte) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, b)
}

// message writes a nested message built by fn. The field is written even
// when the nested message is empty, marking it as present.
func (e *encoder) message(num protowire.Number, fn func(sub *encoder) error) error {
	sub := &encoder{}
	if err := fn(sub); err != nil {
		return err
	}
	e.bytes(num, sub.b)
	return nil
}

// stringMap writes a map as repeated KeyValue messages in key order.
func (e *encoder) stringMap(num protowire.Number, m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_ = e.message(num, func(kv *encoder) error {
			kv.string(1, k)
			kv.string(2, m[k])
			return nil
		})
	}
}
