package main

import (
	"log"
	"os"
)

func main() {
	defer cleanup()
	if len(os.Args) > 5 {
		os.Exit(1) // want "прямой вызов os.Exit в функции main запрещен"
	}
	if len(os.Args) > 3 {
		log.Fatal("too many arguments") // want "прямой вызов log.Fatal в функции main запрещен"
	}
	stop := func() {
		os.Exit(2)
	}
	_ = stop
}

func cleanup() {
	os.Exit(0)
}
