package main

import "github.com/anupcshan/acutool/cmd/acutool/cmd"

func main() {
	cmd.Execute()
}
