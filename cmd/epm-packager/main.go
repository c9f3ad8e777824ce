package main

import "github.com/eve-preview-manager/packager/cmd/epm-packager/cmd"

func main() {
	cmd.Execute()
}
