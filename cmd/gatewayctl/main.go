package main

import (
	"github.com/viant/lambdagate/app"
	"log"
	"os"

	_ "github.com/viant/afsc/s3"
)

func main() {
	if err := app.Run(os.Args[1:]); err != nil {
		log.Fatalln(err)
	}
}
