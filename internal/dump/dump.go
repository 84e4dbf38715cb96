// Package dump renders evaluated values in the verbose type-and-contents
// form shown after "=> " in the shell, e.g. `string(6) "WP-CLI"`.
package dump

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

const indent = "  "

// Value returns the dump of v terminated by a newline.
func Value(v any) string {
	var b strings.Builder
	write(&b, reflect.ValueOf(v), 0)
	return b.String()
}

func write(b *strings.Builder, rv reflect.Value, depth int) {
	for rv.IsValid() && (rv.Kind() == reflect.Interface || rv.Kind() == reflect.Pointer) {
		if rv.IsNil() {
			rv = reflect.Value{}
			break
		}
		rv = rv.Elem()
	}

	b.WriteString(strings.Repeat(indent, depth))
	if !rv.IsValid() {
		b.WriteString("NULL\n")
		return
	}
	writeScalarOrCompound(b, rv, depth)
}

func writeScalarOrCompound(b *strings.Builder, rv reflect.Value, depth int) {
	switch rv.Kind() {
	case reflect.Bool:
		fmt.Fprintf(b, "bool(%t)\n", rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fmt.Fprintf(b, "int(%d)\n", rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		fmt.Fprintf(b, "int(%d)\n", rv.Uint())
	case reflect.Float32, reflect.Float64:
		fmt.Fprintf(b, "float(%s)\n", formatFloat(rv.Float()))
	case reflect.String:
		s := rv.String()
		fmt.Fprintf(b, "string(%d) \"%s\"\n", len(s), s)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			b.WriteString("array(0) {\n")
			b.WriteString(strings.Repeat(indent, depth) + "}\n")
			return
		}
		fmt.Fprintf(b, "array(%d) {\n", rv.Len())
		for i := 0; i < rv.Len(); i++ {
			writeKey(b, strconv.Itoa(i), depth+1)
			write(b, rv.Index(i), depth+1)
		}
		b.WriteString(strings.Repeat(indent, depth) + "}\n")
	case reflect.Map:
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
			byName[names[i]] = k
		}
		sort.Strings(names)

		fmt.Fprintf(b, "array(%d) {\n", len(names))
		for _, name := range names {
			writeKey(b, name, depth+1)
			write(b, rv.MapIndex(byName[name]), depth+1)
		}
		b.WriteString(strings.Repeat(indent, depth) + "}\n")
	case reflect.Func:
		b.WriteString("object(Closure) (0) {\n")
		b.WriteString(strings.Repeat(indent, depth) + "}\n")
	case reflect.Struct:
		t := rv.Type()
		fields := 0
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				fields++
			}
		}
		fmt.Fprintf(b, "object(%s) (%d) {\n", t.Name(), fields)
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			writeKey(b, t.Field(i).Name, depth+1)
			write(b, rv.Field(i), depth+1)
		}
		b.WriteString(strings.Repeat(indent, depth) + "}\n")
	default:
		fmt.Fprintf(b, "object(%s) (0) {\n", rv.Type())
		b.WriteString(strings.Repeat(indent, depth) + "}\n")
	}
}

// writeKey writes an array key line. Integer keys are bare, others quoted.
func writeKey(b *strings.Builder, key string, depth int) {
	b.WriteString(strings.Repeat(indent, depth))
	if _, err := strconv.ParseInt(key, 10, 64); err == nil {
		fmt.Fprintf(b, "[%s]=>\n", key)
		return
	}
	fmt.Fprintf(b, "[\"%s\"]=>\n", key)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e15 || abs < 1e-4) {
		s := strconv.FormatFloat(f, 'E', -1, 64)
		mant, exp, _ := strings.Cut(s, "E")
		if !strings.Contains(mant, ".") {
			mant += ".0"
		}
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "E" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
