package main

import "reel-digest/cmd"

func main() {
	cmd.Execute()
}
