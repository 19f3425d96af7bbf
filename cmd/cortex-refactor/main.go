package main

import "github.com/mvp-joe/cortex-refactor/internal/cli"

func main() {
	cli.Execute()
}
