package main

import "github.com/nixxel-company-limited/escpos-encoder/cli"

func main() {
	cli.Execute()
}
