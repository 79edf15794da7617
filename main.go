package main

import "psn-value/cmd"

func main() {
	cmd.Execute()
}
