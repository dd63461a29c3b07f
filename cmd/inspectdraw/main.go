package main

import (
	"go.inspectdraw.org/draw/drawcmd"
)

func main() {
	drawcmd.Main()
}
