package mpwire

import (
	"reflect"
	"sync"

	"github.com/vmihailenco/tagparser/v2"
)

const tagKey = "msgpack"

type field struct {
	name      string
	index     int
	omitEmpty bool
}

// structInfo is the field layout shared by the walker and the builder.
// Field order is declaration order; it is the array position when
// structs are encoded as arrays.
type structInfo struct {
	fields []field
	byName map[string]int
}

var structCache sync.Map

func getStructInfo(t reflect.Type) *structInfo {
	if cached, ok := structCache.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		byName: make(map[string]int),
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		tag := tagparser.Parse(f.Tag.Get(tagKey))
		if tag.Name == "-" {
			continue
		}
		name := tag.Name
		if name == "" {
			name = f.Name
		}
		info.byName[name] = len(info.fields)
		info.fields = append(info.fields, field{
			name:      name,
			index:     i,
			omitEmpty: tag.HasOption("omitempty"),
		})
	}

	actual, _ := structCache.LoadOrStore(t, info)
	return actual.(*structInfo)
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Struct:
		if z, ok := v.Interface().(interface{ IsZero() bool }); ok {
			return z.IsZero()
		}
	}
	return false
}
