package main

import "github.com/tayloree/petits-plats/cmd"

func main() {
	cmd.Execute()
}
