package main

import "github.com/philjestin/pathresolver/cmd"

func main() {
	cmd.Execute()
}
