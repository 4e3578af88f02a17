package main

import (
	"os"
	_ "time/tzdata" // draw.timezone must resolve in minimal images

	"quiz-draw-service/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
