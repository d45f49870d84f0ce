package main

import "github.com/gaurav-prasanna/doccorpus/cmd"

func main() {
	cmd.Execute()
}
