//go:build js && wasm

// cmd/webclient/main.go
//
// Browser entry point, compiled with GOOS=js GOARCH=wasm.
//
// On load the client binds every form found on the page, using the serving
// site's origin as the service base URL, and exposes deleteTournament(id)
// for the list page's buttons.  A submit handler returns to the browser
// immediately; requests run on their own goroutines.  The program then
// parks so its callbacks stay alive until the page unloads, at which point
// any pending redirect is cancelled.
//
//	GOOS=js GOARCH=wasm go build -o static/client.wasm ./cmd/webclient
package main

import (
	"context"
	"syscall/js"

	"github.com/grahamford77/table-tennis/internal/dom/jsdom"
	"github.com/grahamford77/table-tennis/internal/logger"
	"github.com/grahamford77/table-tennis/internal/page"
)

func main() {
	log := logger.Console("info")
	doc, win := jsdom.Global()

	p, err := page.Bootstrap(doc, win, page.Options{BaseURL: win.Origin(), Log: log})
	if err != nil {
		log.Errorw("client bootstrap failed", "error", err)
		return
	}

	// Blocking dialogs must not run on the event-loop callback itself.
	deleteFn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		id := args[0].String()
		go p.Deleter.Delete(context.Background(), id)
		return nil
	})
	js.Global().Set("deleteTournament", deleteFn)

	unload := js.FuncOf(func(js.Value, []js.Value) any {
		p.Messages.Close()
		return nil
	})
	js.Global().Call("addEventListener", "pagehide", unload)

	select {}
}
