package main

import "github.com/kamusis/zsearch/cmd"

func main() {
	cmd.Execute()
}
