package main

import "github.com/Jashan32/talawa-api/cmd/talawa-api/cmd"

func main() {
	cmd.Execute()
}
