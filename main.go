package main

import "github.com/codexplain/codexplain/cmd"

func main() {
	cmd.Execute()
}
