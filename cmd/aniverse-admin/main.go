package main

import "aniverse/cmd/aniverse-admin/command"

func main() {
	command.Execute()
}
