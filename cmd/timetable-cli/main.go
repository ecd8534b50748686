package main

import "github.com/noah-isme/timetable-optimizer/cmd/timetable-cli/commands"

func main() {
	commands.Execute()
}
