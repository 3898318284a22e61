package main

import "github.com/kingalban/aws-butler/cmd"

func main() {
	cmd.Execute()
}
