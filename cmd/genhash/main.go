// cmd/genhash: prints a bcrypt hash for inserting users by hand.
// Uso: genhash <password>
package main

import (
	"fmt"
	"os"

	"jumboscan/internal/service"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "uso: genhash <password>")
		os.Exit(2)
	}
	h, err := service.HashPassword(os.Args[1])
	if err != nil {
		panic(err)
	}
	fmt.Println(h)
}
