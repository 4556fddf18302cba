package main

import "github.com/naka-gawa/github-digest/cmd"

func main() {
	cmd.Execute()
}
