package projection

import (
	"fmt"
	"reflect"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

// Result is the response envelope.
type Result[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

var (
	entityType    = reflect.TypeFor[kernel.Entity]()
	referenceType = reflect.TypeFor[kernel.Reference]()
)

// NewResult wraps data. It fails with EntityLeakedError if an entity or an
// entity reference is reachable from data through exported fields.
//
// Example:
//
//	result, err := projection.NewResult(dtos)
//	if err != nil {
//	    return err // errs.ErrEntityLeaked: a mapper returned domain objects
//	}
func NewResult[T any](data []T) (Result[T], error) {
	if data == nil {
		data = []T{}
	}
	if err := findEntity(reflect.ValueOf(data), "data", make(map[uintptr]bool)); err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Count: len(data), Data: data}, nil
}

func findEntity(v reflect.Value, path string, seen map[uintptr]bool) error {
	if !v.IsValid() {
		return nil
	}

	t := v.Type()
	if t.Implements(entityType) || t.Implements(referenceType) {
		return errs.NewEntityLeakedError(path, t.String())
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() || seen[v.Pointer()] {
			return nil
		}
		seen[v.Pointer()] = true
		return findEntity(v.Elem(), path, seen)

	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return findEntity(v.Elem(), path, seen)

	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if err := findEntity(v.Index(i), fmt.Sprintf("%s[%d]", path, i), seen); err != nil {
				return err
			}
		}

	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := findEntity(iter.Value(), fmt.Sprintf("%s[%v]", path, iter.Key()), seen); err != nil {
				return err
			}
		}

	case reflect.Struct:
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			if err := findEntity(v.Field(i), path+"."+field.Name, seen); err != nil {
				return err
			}
		}
	}

	return nil
}
