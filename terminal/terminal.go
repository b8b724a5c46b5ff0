// Package terminal renders the login form state on a text stream.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type View struct {
	out io.Writer
	log *zap.Logger

	mutex     sync.Mutex
	lastError string
}

func NewView(out io.Writer, log *zap.Logger) *View {
	return &View{
		out: out,
		log: log,
	}
}

func (v *View) SetSubmitEnabled(enabled bool) {
	v.log.Debug("submit control", zap.Bool("enabled", enabled))
}

func (v *View) SetLoading(visible bool) {
	if visible {
		fmt.Fprintln(v.out, "Signing in...")
	}
}

func (v *View) ShowError(message string) {
	v.mutex.Lock()
	v.lastError = message
	v.mutex.Unlock()
	fmt.Fprintf(v.out, "Error: %s\n", message)
}

func (v *View) HideError() {
	v.mutex.Lock()
	v.lastError = ""
	v.mutex.Unlock()
}

// LastError returns the message currently shown, empty if none.
func (v *View) LastError() string {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.lastError
}

// Navigator prints the landing URL instead of opening it.
type Navigator struct {
	out     io.Writer
	baseURL string

	mutex     sync.Mutex
	navigated string
}

func NewNavigator(out io.Writer, baseURL string) *Navigator {
	return &Navigator{
		out:     out,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (n *Navigator) Navigate(route string) {
	url := n.baseURL + route

	n.mutex.Lock()
	defer n.mutex.Unlock()
	if n.navigated != "" {
		return
	}
	n.navigated = url
	fmt.Fprintln(n.out, url)
}

// Navigated returns the URL navigated to, empty if none.
func (n *Navigator) Navigated() string {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.navigated
}
