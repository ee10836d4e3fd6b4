package main

import (
	"github.com/foomo/dxtree/cmd"
)

func main() {
	cmd.Execute()
}
