package main

import (
	"github.com/cosmoshop/checkout/internal/app"
	"github.com/cosmoshop/checkout/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
