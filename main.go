package main

import "github.com/mbenkirane/cabinet-management/cmd"

func main() {
	cmd.Execute()
}
