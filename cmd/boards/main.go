// Package main provides the boards CLI.
package main

import "github.com/mesh-intelligence/boards/internal/cli"

func main() {
	cli.Execute()
}
