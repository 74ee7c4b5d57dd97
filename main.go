package main

import "github.com/yaojerry/office-admin/cmd"

func main() {
	cmd.Execute()
}
