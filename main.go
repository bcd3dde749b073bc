package main

import "github.com/flyboysam/SRG.Dashboard/internal/cmd"

func main() {
	cmd.Execute()
}
