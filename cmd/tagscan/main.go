package main

import "github.com/mvp-joe/tagscan/internal/cli"

func main() {
	cli.Execute()
}
