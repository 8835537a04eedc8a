package main

import "github.com/tablescope/tablescope-cli/cmd"

func main() {
	cmd.Execute()
}
