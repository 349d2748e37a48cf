package main

import (
	"github.com/dharitri/dvm-go/cmd/denali/cmd"
)

func main() {
	cmd.Execute()
}
