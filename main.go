package main

import "github.com/yz4230/hookdeploy/cmd"

func main() {
	cmd.Execute()
}
