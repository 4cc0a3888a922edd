package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

type column struct {
	index int
	name  string
}

// columns lists the exported fields of a struct type by their JSON name.
func columns(t reflect.Type) []column {
	var out []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		out = append(out, column{index: i, name: name})
	}
	return out
}

func cellValue(v reflect.Value) string {
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = fmt.Sprint(v.Index(i).Interface())
		}
		return strings.Join(parts, "\n")
	}
	return fmt.Sprint(v.Interface())
}

// Render prints a result for a person. A slice of structs is a table with a
// row per element, a struct is a table with a row per field, anything else
// is printed as indented JSON.
func Render(w io.Writer, value any) error {
	v := reflect.ValueOf(value)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			break
		}
		v = v.Elem()
	}
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		_, err := fmt.Fprintln(w, "(no result)")
		return err
	}

	switch {
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Struct:
		if v.Len() == 0 {
			_, err := fmt.Fprintln(w, "(empty)")
			return err
		}
		cols := columns(v.Type().Elem())
		t := NewTable(w)
		header := make(table.Row, len(cols))
		for i, c := range cols {
			header[i] = c.name
		}
		t.AppendHeader(header)
		for i := 0; i < v.Len(); i++ {
			row := make(table.Row, len(cols))
			for j, c := range cols {
				row[j] = cellValue(v.Index(i).Field(c.index))
			}
			t.AppendRow(row)
		}
		t.Render()
		return nil

	case v.Kind() == reflect.Struct:
		t := NewTable(w)
		t.AppendHeader(table.Row{"field", "value"})
		for _, c := range columns(v.Type()) {
			t.AppendRow(table.Row{c.name, cellValue(v.Field(c.index))})
		}
		t.Render()
		return nil
	}

	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
