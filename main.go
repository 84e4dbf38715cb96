package main

import "github.com/itsmostafa/wpshell/cmd"

func main() {
	cmd.Execute()
}
