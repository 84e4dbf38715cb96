package tengo

import (
	"strings"

	"github.com/d5/tengo/v2"
)

var builtinNames = []string{
	"echo", "print", "unset",
	"get_bloginfo", "get_option", "update_option",
	"do_action", "did_action", "wp_generate_uuid4",
}

func isBuiltin(name string) bool {
	for _, b := range builtinNames {
		if b == name {
			return true
		}
	}
	return false
}

// addBuiltinFunctions adds output and site functions to the script
func (e *Executor) addBuiltinFunctions(script *tengo.Script) {
	// echo writes its arguments back to back
	_ = script.Add("echo", &tengo.UserFunction{
		Name: "echo",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			for _, arg := range args {
				e.output.WriteString(objectToString(arg))
			}
			return tengo.UndefinedValue, nil
		},
	})

	// print writes its arguments separated by spaces plus a newline
	_ = script.Add("print", &tengo.UserFunction{
		Name: "print",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = objectToString(arg)
			}
			e.output.WriteString(strings.Join(parts, " "))
			e.output.WriteString("\n")
			return tengo.UndefinedValue, nil
		},
	})

	// unset drops persisted globals by name once the run finishes
	_ = script.Add("unset", &tengo.UserFunction{
		Name: "unset",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			for i, arg := range args {
				name, ok := tengo.ToString(arg)
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: argName(i), Expected: "string", Found: arg.TypeName()}
				}
				e.unset = append(e.unset, name)
			}
			return tengo.UndefinedValue, nil
		},
	})

	_ = script.Add("get_bloginfo", &tengo.UserFunction{
		Name: "get_bloginfo",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			show := ""
			if len(args) > 0 {
				s, ok := tengo.ToString(args[0])
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
				}
				show = s
			}
			return &tengo.String{Value: e.site.BlogInfo(show)}, nil
		},
	})

	_ = script.Add("get_option", &tengo.UserFunction{
		Name: "get_option",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			name, ok := tengo.ToString(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
			}
			var def any = false
			if len(args) > 1 {
				def = toGo(args[1])
			}
			return tengo.FromInterface(e.site.Option(name, def))
		},
	})

	_ = script.Add("update_option", &tengo.UserFunction{
		Name: "update_option",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			name, ok := tengo.ToString(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
			}
			if e.site.UpdateOption(name, toGo(args[1])) {
				return tengo.TrueValue, nil
			}
			return tengo.FalseValue, nil
		},
	})

	_ = script.Add("do_action", &tengo.UserFunction{
		Name: "do_action",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			hook, ok := tengo.ToString(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
			}
			if err := e.site.Hooks.DoAction(hook); err != nil {
				return nil, err
			}
			return tengo.UndefinedValue, nil
		},
	})

	_ = script.Add("did_action", &tengo.UserFunction{
		Name: "did_action",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			hook, ok := tengo.ToString(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "first", Expected: "string", Found: args[0].TypeName()}
			}
			return &tengo.Int{Value: int64(e.site.Hooks.DidAction(hook))}, nil
		},
	})

	_ = script.Add("wp_generate_uuid4", &tengo.UserFunction{
		Name: "wp_generate_uuid4",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.String{Value: e.site.GenerateUUID4()}, nil
		},
	})
}

func argName(i int) string {
	switch i {
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	}
	return "argument"
}

// objectToString converts a Tengo object to its printed form
func objectToString(obj tengo.Object) string {
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return ""
	default:
		if s, ok := tengo.ToString(obj); ok {
			return s
		}
		return obj.String()
	}
}
