/*
Package padicon renders small bitmap icons for the buttons of a hardware control panel
and keeps the rendered images in a content addressed cache directory.

An icon is described by a plain mapping (usually decoded from a YAML or TOML file), which
is turned into an IconSpec. The Generator either returns an already rendered image for an
identical specification, or renders a new one and stores it in the cache.

The supported icon types are solid fills, centered text (multiline text included)
and vertical two-color gradients.

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/padicon"
	)

	func main() {
		cfg := padicon.DefaultConfig()
		cfg.CacheDir = "./icons"

		gen, err := padicon.New(cfg)
		if err != nil {
			panic(err)
		}

		path, err := gen.GenerateFromMap(map[string]any{
			"type":       "text",
			"text":       "REC",
			"color":      "#FF6600",
			"text_color": "#FFFFFF",
			"font_size":  70,
		}, padicon.Request{})
		if err != nil {
			fmt.Printf("Error generating the icon: %s", err.Error())
		}
		fmt.Println(path)
	}
*/
package padicon
