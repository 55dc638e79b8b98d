package main

import (
	"snipx-service/app"
	"snipx-service/pkg/observability"
)

func main() {
	observability.StartProfiling("snipx-service")
	app.Run()
}
