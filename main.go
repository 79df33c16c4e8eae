package main

import "github.com/sshell/sshell/cmd"

func main() {
	cmd.Execute()
}
