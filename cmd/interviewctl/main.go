package main

import "peerprep/interview/internal/cli"

func main() {
	cli.Execute()
}
