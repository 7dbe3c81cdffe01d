package main

import "github.com/sppgdatasystem/bgn/cmd/client/cmd"

func main() {
	cmd.Execute()
}
