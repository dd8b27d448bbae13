package main

import "github.com/RyanBlaney/word-recognizer/cmd"

func main() {
	cmd.Execute()
}
