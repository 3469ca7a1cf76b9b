// Package script holds the JavaScript injected into every webview and the
// host-to-page call templates built on it.
package script

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/flurx/internal/domain/platform"
)

const (
	// GlobalName is the page-side API object.
	GlobalName = "__FLURX__"
)

//go:embed js/api.js
var apiJS string

//go:embed js/grip_zone.js
var gripZoneJS string

//go:embed js/grip_drag.js
var gripDragJS string

// Bootstrap returns the script that defines window.__FLURX__.
func Bootstrap() string {
	return apiJS
}

// GripZone returns the grip-zone hook for this platform. On platforms where
// host cursor deltas are unreliable it also streams grip::drag deltas.
func GripZone() string {
	if platform.WebviewDragDeltas {
		return gripZoneJS + "\n" + gripDragJS
	}
	return gripZoneJS
}

// Identifier binds the webview's identifier on the page.
func Identifier(id string) string {
	return fmt.Sprintf("window.%s.identifier = %s;", GlobalName, jsonString(id))
}

// Compose builds the init script: bootstrap, grip zone, identifier line,
// then the user scripts joined by ';'.
func Compose(id string, userScripts []string) string {
	var b strings.Builder
	b.WriteString(Bootstrap())
	b.WriteString(";\n")
	b.WriteString(GripZone())
	b.WriteString(";\n")
	b.WriteString(Identifier(id))
	if len(userScripts) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(userScripts, ";"))
	}
	return b.String()
}

// GripZoneHeight updates the grip band height on the page.
func GripZoneHeight(height uint32) string {
	return fmt.Sprintf("window.%s.gripZoneHeight=%d", GlobalName, height)
}

// ResolveIpc settles the pending invoke identified by resolveID with the
// JSON value output.
func ResolveIpc(resolveID uint64, output string) string {
	return fmt.Sprintf("window.%s.__resolveIpc(%d, %s);", GlobalName, resolveID, output)
}

// EmitEvent delivers payload (JSON) to the page listeners of eventID. name
// is the target webview's identifier.
func EmitEvent(name, eventID, payload string) string {
	return fmt.Sprintf("window.%s.__emitEvent('%s', '%s', %s);", GlobalName, singleQuoted(name), singleQuoted(eventID), payload)
}

func jsonString(s string) string {
	// json.Marshal on a string cannot fail.
	b, _ := json.Marshal(s)
	return string(b)
}

// singleQuoted escapes s for a single-quoted JS string literal.
func singleQuoted(s string) string {
	quoted := jsonString(s)
	inner := quoted[1 : len(quoted)-1]
	return strings.ReplaceAll(inner, "'", `\u0027`)
}
