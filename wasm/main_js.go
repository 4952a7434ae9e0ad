//go:build js && wasm

package main

import (
	"bytes"
	"syscall/js"

	"github.com/bodgit/pidtool/pid"
)

// Embedding hosts historically allotted the decoder a 64K pixel canvas.
const embeddedMaxPixels = 65536

func decodePid(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing pid bytes")
	}
	buf := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(buf, args[0])

	dec := pid.Decoder{MaxPixels: embeddedMaxPixels}
	m, err := dec.DecodeImage(bytes.NewReader(buf))
	if err != nil {
		return js.ValueOf(err.Error())
	}

	canvas, err := pid.NewCanvasBuffer(m.Header.Width, m.Header.Height)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	if err := m.Draw(canvas); err != nil {
		return js.ValueOf(err.Error())
	}

	out := canvas.Bytes()
	uint8arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(uint8arr, out)
	return uint8arr
}

func main() {
	js.Global().Set("decodePid", js.FuncOf(decodePid))
	select {}
}
