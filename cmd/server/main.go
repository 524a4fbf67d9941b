package main

import "codequest/internal/server"

func main() {
	server.StartGinServer()
}
