package main

import "github.com/cmmoran/ctorinject/cmd"

func main() {
	cmd.Execute()
}
