package main

import "ratss/src/cli"

func main() {
	cli.Execute()
}
