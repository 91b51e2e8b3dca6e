package main

import (
	"embed"
	"log"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/public
var assets embed.FS

func main() {
	app := NewApp()

	err := wails.Run(&options.App{
		Title:     windowTitle,
		Width:     1024,
		Height:    720,
		MinWidth:  640,
		MinHeight: 480,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 46, G: 46, B: 46, A: 255}, // #2e2e2e
		OnStartup:        app.Startup,
		OnDomReady:       app.DomReady,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal("Error running Wails app: ", err.Error())
	}
}
