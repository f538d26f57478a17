package infrastructure

import "github.com/atotto/clipboard"

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll replaces the clipboard content with text.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
