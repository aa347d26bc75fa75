package jsoner

import (
	"reflect"
	"time"
	"unsafe"

	json "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

var timeType = reflect.TypeOf(time.Time{})

// timestampExtension writes time.Time values as epoch milliseconds. On input it also accepts
// RFC 3339 strings.
type timestampExtension struct {
	json.DummyExtension
}

func (e *timestampExtension) CreateEncoder(typ reflect2.Type) json.ValEncoder {
	if typ.Type1() == timeType {
		return timestampCodec{}
	}
	return nil
}

func (e *timestampExtension) CreateDecoder(typ reflect2.Type) json.ValDecoder {
	if typ.Type1() == timeType {
		return timestampCodec{}
	}
	return nil
}

type timestampCodec struct{}

func (timestampCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return (*time.Time)(ptr).IsZero()
}

func (timestampCodec) Encode(ptr unsafe.Pointer, stream *json.Stream) {
	stream.WriteInt64(toMillis(*(*time.Time)(ptr)))
}

func (timestampCodec) Decode(ptr unsafe.Pointer, iter *json.Iterator) {
	t := (*time.Time)(ptr)
	switch iter.WhatIsNext() {
	case json.NilValue:
		iter.ReadNil()
		*t = time.Time{}
	case json.NumberValue:
		*t = fromMillis(iter.ReadInt64())
	case json.StringValue:
		parsed, err := time.Parse(time.RFC3339Nano, iter.ReadString())
		if err != nil {
			iter.ReportError("decode time.Time", err.Error())
			return
		}
		*t = parsed
	default:
		iter.ReportError("decode time.Time", "expected epoch milliseconds, RFC 3339 string, or null")
	}
}

func toMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func fromMillis(ms int64) time.Time {
	return time.Unix(0, ms*int64(time.Millisecond)).UTC()
}
