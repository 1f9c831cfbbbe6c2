package main

import "github.com/AzielCF/daily-post/cmd"

func main() {
	cmd.Execute()
}
