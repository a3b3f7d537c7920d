package main

import "github.com/l3uddz/iconkit/cmd"

func main() {
	cmd.Execute()
}
