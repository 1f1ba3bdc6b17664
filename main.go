package main

import (
	"github.com/Nrich-sunny/merchantpoint/cmd"
)

func main() {
	cmd.Execute()
}
