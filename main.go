package main

import (
	"os"

	"github.com/tanpawarit/Chative-Parts-Assistant/cmd"
	_ "github.com/tanpawarit/Chative-Parts-Assistant/pkg/logger/autoload"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
