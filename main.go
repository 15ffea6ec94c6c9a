package main

import "github.com/blogem/object-log/cli"

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
