package main

import "vpctl/cmd"

func main() {
	cmd.Execute()
}
