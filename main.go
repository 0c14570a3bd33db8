package main

import "github.com/deskctl/deskctl/cmd"

func main() {
	cmd.Execute()
}
