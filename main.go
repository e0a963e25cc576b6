package main

import "pagepilot/cmd"

func main() {
	cmd.Execute()
}
