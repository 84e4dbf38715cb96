// Package engine holds what the script engines share: engine names and
// the handling of code that starts with `return`.
package engine

import (
	"fmt"
	"regexp"
)

// Name identifies a script engine
type Name string

const (
	// JS evaluates JavaScript with goja
	JS Name = "js"
	// Tengo evaluates Tengo scripts
	Tengo Name = "tengo"
)

// Validate checks if the given engine name is supported and returns it
func Validate(name string) (Name, error) {
	switch Name(name) {
	case JS:
		return JS, nil
	case Tengo:
		return Tengo, nil
	default:
		return "", fmt.Errorf("unknown engine: %q (valid options: js, tengo)", name)
	}
}

var returnPattern = regexp.MustCompile(`^return[(\s]`)

// IsReturn reports whether code starts with the return keyword
func IsReturn(code string) bool {
	return returnPattern.MatchString(code)
}

