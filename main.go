package main

import "github.com/voidbox/voidbox/cmd"

func main() {
	cmd.Execute()
}
