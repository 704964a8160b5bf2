package main

import "github.com/sonigraph/sonigraph/cmd"

func main() {
	cmd.Execute()
}
