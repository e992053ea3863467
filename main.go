package main

import "github.com/Alijeyrad/kliniksehat/cmd"

func main() {
	cmd.Execute()
}
