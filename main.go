package main

import "github.com/nitinNayar/github-recent-contributors/cmd"

func main() {
	cmd.Execute()
}
