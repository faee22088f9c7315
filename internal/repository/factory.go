package repository

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jmoiron/sqlx/reflectx"

	"sqlrepo/internal/provider"
)

const tagName = "db"

var mapper = reflectx.NewMapperFunc(tagName, strings.ToLower)

// StructFactory builds entities from rows using `db` struct tags. T is the
// struct type and PT its pointer, which must implement Entity.
type StructFactory[T any, PT interface {
	*T
	Entity
}] struct{}

// Create decodes row into a new *T. Text values are converted to the field
// type where possible; columns without a matching field are ignored.
func (StructFactory[T, PT]) Create(row provider.Row) (PT, error) {
	out := PT(new(T))
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          tagName,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return out, nil
}

// CreateCollection decodes every row, preserving order.
func (f StructFactory[T, PT]) CreateCollection(rows provider.Rows) ([]PT, error) {
	out := make([]PT, 0, len(rows))
	for _, row := range rows {
		e, err := f.Create(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Fields returns the top-level tagged columns of entity.
func (StructFactory[T, PT]) Fields(entity PT) (provider.Fields, error) {
	if entity == nil {
		return nil, fmt.Errorf("nil %T", entity)
	}
	fields := provider.Fields{}
	for name, v := range mapper.FieldMap(reflect.ValueOf(entity)) {
		if strings.Contains(name, ".") {
			continue
		}
		fields[name] = v.Interface()
	}
	return fields, nil
}

// CountOf unwraps the single "count" row returned by Count.
func CountOf(rows provider.Rows) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("count: empty result")
	}
	var n int64
	if err := mapstructure.WeakDecode(rows[0]["count"], &n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
