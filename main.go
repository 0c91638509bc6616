package main

import "github.com/iksnae/afterpaths/cmd"

func main() {
	cmd.Execute()
}
