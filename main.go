package main

import "github.com/Mk7214/ffconvertTui/cmd"

func main() {
	cmd.Execute()
}
