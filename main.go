// Package main is the entry point for the moa-admin CLI.
// It administers the MOA platform through its REST API.
package main

import (
	"moa/admin/cmd"
)

func main() {
	cmd.Execute()
}
