package js

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// setupEnvironment installs the output, include and site functions
func (e *Executor) setupEnvironment() error {
	vm := e.vm

	// echo(...args) writes its arguments back to back
	echo := func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			e.output.WriteString(arg.String())
		}
		return goja.Undefined()
	}
	if err := vm.Set("echo", echo); err != nil {
		return fmt.Errorf("failed to set echo: %w", err)
	}

	// print(...args) writes its arguments separated by spaces plus a newline
	printFunc := func(call goja.FunctionCall) goja.Value {
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		e.output.WriteString(strings.Join(args, " "))
		e.output.WriteString("\n")
		return goja.Undefined()
	}
	if err := vm.Set("print", printFunc); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	console := vm.NewObject()
	if err := console.Set("log", printFunc); err != nil {
		return fmt.Errorf("failed to set console.log: %w", err)
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("failed to set console: %w", err)
	}

	// unset("name", ...) removes globals
	unset := func(call goja.FunctionCall) goja.Value {
		global := vm.GlobalObject()
		for _, arg := range call.Arguments {
			if err := global.Delete(arg.String()); err != nil {
				panic(vm.NewGoError(err))
			}
		}
		return goja.Undefined()
	}
	if err := vm.Set("unset", unset); err != nil {
		return fmt.Errorf("failed to set unset: %w", err)
	}

	if err := e.setupIncludes(); err != nil {
		return err
	}
	if err := e.setupSite(); err != nil {
		return err
	}
	return SetupFSModule(vm, e.fs)
}

// setupIncludes installs include, include_once, require and require_once.
// include warns about a missing file and returns false; require throws.
func (e *Executor) setupIncludes() error {
	vm := e.vm

	loader := func(name string, once, required bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				panic(vm.NewTypeError("%s requires 1 argument: path", name))
			}
			path := call.Arguments[0].String()

			val, err := e.load(path, once)
			if err != nil {
				if _, ok := err.(*goja.Exception); ok || required {
					panic(vm.NewGoError(fmt.Errorf("%s(%s): %w", name, path, err)))
				}
				fmt.Fprintf(&e.output, "Warning: %s(%s): %v\n", name, path, err)
				return vm.ToValue(false)
			}
			if val == nil || goja.IsUndefined(val) {
				return vm.ToValue(true)
			}
			return val
		}
	}

	funcs := map[string]func(goja.FunctionCall) goja.Value{
		"include":      loader("include", false, false),
		"include_once": loader("include_once", true, false),
		"require":      loader("require", false, true),
		"require_once": loader("require_once", true, true),
	}
	for name, fn := range funcs {
		if err := vm.Set(name, fn); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	return nil
}

// setupSite exposes the site environment and its hooks
func (e *Executor) setupSite() error {
	vm := e.vm
	s := e.site

	funcs := map[string]func(goja.FunctionCall) goja.Value{
		// get_bloginfo(show = "name")
		"get_bloginfo": func(call goja.FunctionCall) goja.Value {
			show := ""
			if len(call.Arguments) > 0 {
				show = call.Arguments[0].String()
			}
			return vm.ToValue(s.BlogInfo(show))
		},

		// get_option(name, default = false)
		"get_option": func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				panic(vm.NewTypeError("get_option requires at least 1 argument: name"))
			}
			var def any = false
			if len(call.Arguments) > 1 {
				def = call.Arguments[1].Export()
			}
			return vm.ToValue(s.Option(call.Arguments[0].String(), def))
		},

		// update_option(name, value) -> bool
		"update_option": func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("update_option requires 2 arguments: name, value"))
			}
			return vm.ToValue(s.UpdateOption(call.Arguments[0].String(), call.Arguments[1].Export()))
		},

		// add_action(hook, callback)
		"add_action": func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("add_action requires 2 arguments: hook, callback"))
			}
			fn, ok := goja.AssertFunction(call.Arguments[1])
			if !ok {
				panic(vm.NewTypeError("add_action callback must be a function"))
			}
			hook := call.Arguments[0].String()
			err := s.Hooks.AddAction(hook, func() error {
				_, err := fn(goja.Undefined())
				return err
			})
			if err != nil {
				panic(vm.NewGoError(err))
			}
			return vm.ToValue(true)
		},

		// do_action(hook)
		"do_action": func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				panic(vm.NewTypeError("do_action requires 1 argument: hook"))
			}
			if err := s.Hooks.DoAction(call.Arguments[0].String()); err != nil {
				panic(vm.NewGoError(err))
			}
			return goja.Undefined()
		},

		// did_action(hook) -> number of times fired
		"did_action": func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				panic(vm.NewTypeError("did_action requires 1 argument: hook"))
			}
			return vm.ToValue(s.Hooks.DidAction(call.Arguments[0].String()))
		},

		"wp_generate_uuid4": func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(s.GenerateUUID4())
		},
	}

	for name, fn := range funcs {
		if err := vm.Set(name, fn); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
	}
	return nil
}
