package main

import "weather-lookup/cmd"

func main() {
	cmd.Execute()
}
