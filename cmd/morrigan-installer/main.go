package main

import "github.com/oshokin/morrigan-installer/cmd/morrigan-installer/cmd"

func main() {
	cmd.Execute()
}
