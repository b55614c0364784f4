package main

import (
	"krw-rate-alerts/internal/cli"
)

func main() {
	cli.Execute()
}
