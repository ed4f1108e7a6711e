package main

import "github.com/oshokin/motion-controller/cmd/motion-controller/cmd"

func main() {
	cmd.Execute()
}
