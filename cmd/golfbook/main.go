package main

import "github.com/gwholdren-max/golfbook/cmd"

func main() {
	cmd.Execute()
}
