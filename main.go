package main

import "github.com/jengzang/trackcore-go/cmd"

func main() {
	cmd.Execute()
}
