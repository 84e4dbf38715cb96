//go:build !unix

package restart

// platformExec is nil where the process image cannot be replaced
var platformExec ExecFunc
