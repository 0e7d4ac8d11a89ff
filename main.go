package main

import "github.com/KaramelBytes/barnlog/cmd"

func main() {
	cmd.Execute()
}
