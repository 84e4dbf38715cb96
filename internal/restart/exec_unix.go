//go:build unix

package restart

import "golang.org/x/sys/unix"

func platformExec(binary string, argv []string, env []string) error {
	return unix.Exec(binary, argv, env)
}
