// Package clipboard adapts the system clipboard to the core.Clipboard port.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/musetax/checkboost-onboard/core"
)

type Adapter struct{}

var _ core.Clipboard = (*Adapter)(nil)

func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
