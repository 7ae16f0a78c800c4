package main

import "github.com/vivekrana775/ems-backend/cmd"

func main() {
	cmd.Execute()
}
