// Package main provides elisectl, the maintenance CLI for an Elise Reads data directory.
package main

import "github.com/elisereads/elisereads-server/cmd/elisectl/commands"

func main() {
	commands.Execute()
}
