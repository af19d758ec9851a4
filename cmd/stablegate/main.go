package main

import "github.com/danielpatrickdp/stablegate/internal/cli"

func main() {
	cli.Execute()
}
