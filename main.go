/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/aishanaaz19/assignment-growthx/cmd"

func main() {
	cmd.Execute()
}
