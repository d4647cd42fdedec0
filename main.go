/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/andrewhowdencom/md2dita/cmd"

func main() {
	cmd.Execute()
}
