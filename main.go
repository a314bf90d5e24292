package main

import "github.com/sidenote-lang/sidenote/cmd"

func main() {
	cmd.Execute()
}
