package main

import "icuflow/internal/app"

func main() {
	app.Main()
}
