// Package jspage runs injected webview scripts in an embedded JavaScript
// engine so tests can drive the page side of the bridge.
package jspage

import (
	"encoding/json"
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/require"
)

// prelude fakes the bits of a browser window the injected scripts touch.
const prelude = `
var window = this;
var __handlers = {};
window.ipc = { postMessage: function(s) { __post(s); } };
window.addEventListener = function(type, fn) {
  (__handlers[type] = __handlers[type] || []).push(fn);
};
window.__dispatch = function(type, e) {
  (__handlers[type] || []).forEach(function(fn) { fn(e); });
};
`

// Page is a fake page with initScript loaded. It is not safe for
// concurrent use.
type Page struct {
	t      testing.TB
	vm     *sobek.Runtime
	posted []string
}

// New loads initScript into a fresh page.
func New(t testing.TB, initScript string) *Page {
	t.Helper()
	p := &Page{t: t, vm: sobek.New()}
	require.NoError(t, p.vm.Set("__post", func(s string) {
		p.posted = append(p.posted, s)
	}))
	p.Run(prelude)
	p.Run(initScript)
	return p
}

// Run evaluates src and fails the test on a script error. Promise
// reactions queued by src have run when Run returns.
func (p *Page) Run(src string) sobek.Value {
	p.t.Helper()
	v, err := p.vm.RunString(src)
	require.NoError(p.t, err)
	return v
}

// JSON evaluates expr and returns JSON.stringify of its value.
func (p *Page) JSON(expr string) string {
	p.t.Helper()
	return p.Run("JSON.stringify(" + expr + ")").String()
}

// Get returns a global variable.
func (p *Page) Get(name string) sobek.Value {
	return p.vm.Get(name)
}

// Posted returns every message posted through window.ipc.postMessage.
func (p *Page) Posted() []string {
	return append([]string(nil), p.posted...)
}

// Drain returns and forgets the posted messages.
func (p *Page) Drain() []string {
	out := p.posted
	p.posted = nil
	return out
}

// Message decodes the i-th posted message.
func (p *Page) Message(i int) map[string]any {
	p.t.Helper()
	require.Greater(p.t, len(p.posted), i)
	var m map[string]any
	require.NoError(p.t, json.Unmarshal([]byte(p.posted[i]), &m))
	return m
}
