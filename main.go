package main

import "github.com/AgbediaSamuel/sudoku-solver/cmd"

func main() {
	cmd.Execute()
}
