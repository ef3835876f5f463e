package main

import "github.com/dbsmedya/axmeta/cmd/axmeta/cmd"

func main() {
	cmd.Execute()
}
