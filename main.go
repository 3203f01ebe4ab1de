package main

import "github.com/kebairia/wslsnap/cmd"

func main() {
	cmd.Execute()
}
