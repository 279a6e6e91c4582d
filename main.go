package main

import (
	"github.com/coinsspor/Symphony-Auto-Withdraw-Bot/cmd"
)

func main() {
	cmd.Execute()
}
