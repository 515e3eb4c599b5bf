package main

import (
	"github.com/markushocke/modern-io/cmd"
)

func main() {
	cmd.Execute()
}
