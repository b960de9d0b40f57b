package main

import (
	"github.com/OpenCHAMI/mpx/cmd"
)

func main() {
	cmd.Execute()
}
