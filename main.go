package main

import "github.com/emrgen/resumectl/cmd"

func main() {
	cmd.Execute()
}
