package main

import "github.com/Vovarama1992/messenger-broadcast/cmd/root"

func main() {
	root.Execute()
}
