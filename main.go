package main

import "github.com/notargets/gosrhd/cmd"

func main() {
	cmd.Execute()
}
