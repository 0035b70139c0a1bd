package main

import "github.com/jonesrussell/toolscout/cmd"

func main() {
	cmd.Execute()
}
