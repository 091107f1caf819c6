package main

import "github.com/icopack/icopack/cmd"

func main() {
	cmd.Execute()
}
