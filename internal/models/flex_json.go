package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// fieldMaps caches JSON tag -> struct field index mappings per type.
var fieldMaps sync.Map

func fieldMapFor(t reflect.Type) map[string]int {
	if m, ok := fieldMaps.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		m[name] = i
	}
	fieldMaps.Store(t, m)
	return m
}

// UnmarshalJSON accepts both native JSON types and string-encoded numbers.
// The league feed serialises every column as a string, with "" for missing
// numbers.
func (pa *PlateAppearance) UnmarshalJSON(data []byte) error {
	type Alias PlateAppearance
	return flexUnmarshal(data, (*Alias)(pa))
}

// UnmarshalJSON accepts string-encoded numbers like PlateAppearance does.
func (p *Player) UnmarshalJSON(data []byte) error {
	type Alias Player
	return flexUnmarshal(data, (*Alias)(p))
}

// flexUnmarshal decodes data into target, a pointer to a struct whose type
// has no UnmarshalJSON of its own.
func flexUnmarshal(data []byte, target interface{}) error {
	// Fast path: native types all line up
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	v := reflect.ValueOf(target).Elem()
	// The failed fast path may have filled some fields already
	v.Set(reflect.Zero(v.Type()))
	fieldMap := fieldMapFor(v.Type())

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		// Value is a JSON string but target is numeric: coerce
		if len(rawVal) > 1 && rawVal[0] == '"' {
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil {
				continue
			}
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			coerceStringToField(fv, s)
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
// Pointer fields are allocated only when the string parses.
func coerceStringToField(fv reflect.Value, s string) {
	if fv.Kind() == reflect.Ptr {
		elem := reflect.New(fv.Type().Elem())
		coerceStringToField(elem.Elem(), s)
		if !elem.Elem().IsZero() || isZeroLiteral(s) {
			fv.Set(elem)
		}
		return
	}

	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "28.0" -> truncate to int
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, err := strconv.ParseFloat(s, 64); err == nil && n >= 0 {
			fv.SetUint(uint64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		}
	case reflect.String:
		fv.SetString(s)
	}
}

func isZeroLiteral(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n == 0
}
