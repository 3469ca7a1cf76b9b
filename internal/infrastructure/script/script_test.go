package script

import (
	"strings"
	"testing"

	"github.com/bnema/flurx/internal/domain/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_Order(t *testing.T) {
	out := Compose("panel", []string{"a()", "b()"})

	bootstrap := strings.Index(out, Bootstrap())
	grip := strings.Index(out, gripZoneJS)
	ident := strings.Index(out, `window.__FLURX__.identifier = "panel";`)
	user := strings.Index(out, "a();b()")

	require.True(t, bootstrap >= 0 && grip >= 0 && ident >= 0 && user >= 0, out)
	assert.Less(t, bootstrap, grip)
	assert.Less(t, grip, ident)
	assert.Less(t, ident, user)
}

func TestIdentifier_Escapes(t *testing.T) {
	assert.Equal(t, `window.__FLURX__.identifier = "a\"b";`, Identifier(`a"b`))
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, "window.__FLURX__.gripZoneHeight=30", GripZoneHeight(30))
	assert.Equal(t, "window.__FLURX__.__resolveIpc(7, {\"Ok\":3});", ResolveIpc(7, `{"Ok":3}`))
	assert.Equal(t,
		`window.__FLURX__.__emitEvent('main', 'count', 1);`,
		EmitEvent("main", "count", "1"))
	assert.Equal(t,
		`window.__FLURX__.__emitEvent('it\u0027s \"x\"', 'e\\v', null);`,
		EmitEvent(`it's "x"`, `e\v`, "null"))
}

func TestPage_InvokePostsCommand(t *testing.T) {
	p := newPage(t, "main")

	p.Run(`window.__FLURX__.invoke("add", {a: 1, b: 2});`)
	p.Run(`window.__FLURX__.invoke("ping");`)

	first := p.Message(0)
	assert.Equal(t, "Command", first["type"])
	msg := first["message"].(map[string]any)
	assert.Equal(t, "add", msg["id"])
	assert.Equal(t, `{"a":1,"b":2}`, msg["args"])
	assert.EqualValues(t, 1, msg["resolve_id"])

	second := p.Message(1)["message"].(map[string]any)
	assert.Nil(t, second["args"])
	assert.EqualValues(t, 2, second["resolve_id"])
}

func TestPage_ResolveIpc(t *testing.T) {
	p := newPage(t, "main")

	p.Run(`
var results = [];
var errors = [];
window.__FLURX__.invoke("raw").then(function(v) { results.push(v); });
window.__FLURX__.invoke("ok").then(function(v) { results.push(v); });
window.__FLURX__.invoke("err").then(null, function(e) { errors.push(e); });
`)
	p.Run(`window.__FLURX__.__resolveIpc(1, 3);`)
	p.Run(`window.__FLURX__.__resolveIpc(2, {"Ok": "fine"});`)
	p.Run(`window.__FLURX__.__resolveIpc(3, {"Err": "boom"});`)
	// settled or unknown ids are ignored
	p.Run(`window.__FLURX__.__resolveIpc(1, 99); window.__FLURX__.__resolveIpc(42, 1);`)

	assert.Equal(t, `[3,"fine"]`, p.Run(`JSON.stringify(results)`).String())
	assert.Equal(t, `["boom"]`, p.Run(`JSON.stringify(errors)`).String())
}

func TestPage_ListenAndEmitEvent(t *testing.T) {
	p := newPage(t, "main")

	p.Run(`
var got = [];
var off = window.__FLURX__.listen("tick", function(v) { got.push(v); });
window.__FLURX__.listen("tick", function(v) { got.push(v * 10); });
window.__FLURX__.__emitEvent('main', 'tick', 1);
window.__FLURX__.__emitEvent('other', 'tick', 2);
off();
window.__FLURX__.__emitEvent('main', 'tick', 3);
window.__FLURX__.__emitEvent('main', 'unknown', 4);
`)

	assert.Equal(t, `[1,10,30]`, p.Run(`JSON.stringify(got)`).String())
}

func TestPage_EmitPostsEvent(t *testing.T) {
	p := newPage(t, "main")

	p.Run(`window.__FLURX__.emit("saved", {id: 5});`)

	m := p.Message(0)
	assert.Equal(t, "Event", m["type"])
	msg := m["message"].(map[string]any)
	assert.Equal(t, "saved", msg["event_id"])
	assert.Equal(t, `{"id":5}`, msg["payload"])
}

func TestPage_IdentifierAndUserScripts(t *testing.T) {
	p := newPage(t, "panel-1", "var userRan = window.__FLURX__.identifier")

	assert.Equal(t, "panel-1", p.Get("userRan").String())
}

func TestPage_GripZone(t *testing.T) {
	p := newPage(t, "main")
	p.Run(GripZoneHeight(20))

	p.Run(`window.__dispatch('mousedown', {button: 0, clientX: 4, clientY: 30});`)
	p.Run(`window.__dispatch('mousedown', {button: 2, clientX: 4, clientY: 5});`)
	assert.Empty(t, p.Posted())

	p.Run(`window.__dispatch('mousedown', {button: 0, clientX: 4, clientY: 12});`)
	grab := p.Message(0)["message"].(map[string]any)
	assert.Equal(t, "FLURX|grip::grab", grab["event_id"])
	assert.JSONEq(t, `{"x":4,"y":12}`, grab["payload"].(string))

	p.Run(`window.__dispatch('mousemove', {movementX: 3, movementY: -1});`)
	p.Run(`window.__dispatch('mouseup', {button: 0});`)

	last := p.Message(len(p.Posted()) - 1)["message"].(map[string]any)
	assert.Equal(t, "FLURX|grip::release", last["event_id"])

	if platform.WebviewDragDeltas {
		require.Len(t, p.Posted(), 3)
		drag := p.Message(1)["message"].(map[string]any)
		assert.Equal(t, "FLURX|grip::drag", drag["event_id"])
		assert.JSONEq(t, `{"x":3,"y":-1}`, drag["payload"].(string))
	} else {
		assert.Len(t, p.Posted(), 2)
	}
}
