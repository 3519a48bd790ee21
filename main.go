package main

import "ragbot/cmd"

func main() {
	cmd.Execute()
}
