package main

import "github.com/user/te_viewer_go/internal/cli"

func main() {
	cli.Execute()
}
