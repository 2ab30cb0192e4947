package main

import "github.com/JovanPapi/krusevska-odaja-internal-work/cmd/posctl/commands"

func main() {
	commands.Execute()
}
