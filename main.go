package main

import "pidformatter/cmd"

func main() {
	cmd.Execute()
}
