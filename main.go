package main

import "github.com/brk3/wellnest/cmd"

func main() {
	cmd.Execute()
}
