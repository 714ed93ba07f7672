package main

import "github.com/masmgr/changeminer/cmd"

func main() {
	cmd.Run()
}
