package main

import "github.com/lioia/sparse-pagerank/cmd"

func main() {
	cmd.Execute()
}
