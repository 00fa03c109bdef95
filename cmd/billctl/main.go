package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zaidnet/tagihan/cmd/billctl/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
