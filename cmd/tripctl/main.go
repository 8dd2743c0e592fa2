package main

import "trip-planner-service/cmd/tripctl/command"

func main() {
	command.Execute()
}
