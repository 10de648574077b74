package main

import "github.com/ValentinKolb/travels/cmd"

func main() {
	cmd.Execute()
}
