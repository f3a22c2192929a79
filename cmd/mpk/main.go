package main

import "mpk/cmd/mpk/cmd"

func main() {
	cmd.Execute()
}
