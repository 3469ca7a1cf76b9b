package api_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/flurx/internal/application/api"
	"github.com/bnema/flurx/internal/application/ipc"
	"github.com/bnema/flurx/internal/application/port"
	portmocks "github.com/bnema/flurx/internal/application/port/mocks"
	"github.com/bnema/flurx/internal/application/registry"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/infrastructure/filesystem"
	"github.com/bnema/flurx/internal/infrastructure/memview"
	"github.com/bnema/flurx/internal/logging"
)

type fakePaths struct{ home string }

func (p fakePaths) HomeDir() (string, error)        { return p.home, nil }
func (p fakePaths) ConfigDir() (string, error)      { return p.home + "/.config/flurx", nil }
func (p fakePaths) DataDir() (string, error)        { return p.home + "/.local/share/flurx", nil }
func (p fakePaths) StateDir() (string, error)       { return p.home + "/.local/state/flurx", nil }
func (p fakePaths) CacheDir() (string, error)       { return "", errors.New("no cache") }
func (p fakePaths) TempDir() (string, error)        { return "/tmp", nil }
func (p fakePaths) ExecutablePath() (string, error) { return "/usr/bin/flurx", nil }

type fixture struct {
	t      *testing.T
	ctx    context.Context
	logs   *bytes.Buffer
	stdout *bytes.Buffer
	world  *world.World
	reg    *registry.Registry
	bridge *ipc.Bridge
	api    *api.API
	view   *memview.View
	id     world.Entity
	exited int
}

func newFixture(t *testing.T, cfg entity.WebviewConfig, opts api.Options) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	f := &fixture{
		t:      t,
		ctx:    logging.WithContext(context.Background(), zerolog.New(logs)),
		logs:   logs,
		stdout: &bytes.Buffer{},
		world:  world.New(),
		reg:    registry.New(),
	}
	f.bridge = ipc.NewBridge(f.ctx, ipc.DefaultConfig())
	t.Cleanup(f.bridge.Close)

	opts.Stdout = f.stdout
	if opts.App.Name == "" {
		opts.App = api.AppInfo{Name: "flurx", Version: "1.2.3"}
	}
	opts.Exit = func() { f.exited++ }

	var err error
	f.api, err = api.New(f.ctx, f.bridge, opts)
	require.NoError(t, err)

	f.id = f.world.Spawn()
	world.Insert(f.world, f.id, cfg)
	handle, err := memview.New().Build(f.ctx, port.WindowParent(f.world.Spawn()), cfg, port.Loader{}, port.Hooks{})
	require.NoError(t, err)
	f.view = handle.(*memview.View)
	f.reg.Insert(f.id, handle)
	return f
}

func (f *fixture) invoke(id string, args any, resolveID int) {
	f.t.Helper()
	argField := "null"
	if args != nil {
		argField = strconv.Quote(mustJSON(f.t, args))
	}
	f.bridge.Enqueue(f.id, `{"type":"Command","message":{"id":"`+id+`","args":`+argField+`,"resolve_id":`+strconv.Itoa(resolveID)+`}}`)
}

func (f *fixture) emit(id, payload string) {
	f.bridge.Enqueue(f.id, `{"type":"Event","message":{"event_id":"`+id+`","payload":`+strconv.Quote(payload)+`}}`)
}

// settle runs ticks until async work has been delivered.
func (f *fixture) settle() []string {
	f.bridge.Process(f.ctx, f.world)
	f.api.Consume()
	f.bridge.Resolve(f.ctx, f.reg)
	f.bridge.Wait()
	f.bridge.Process(f.ctx, f.world)
	f.api.Consume()
	f.bridge.Resolve(f.ctx, f.reg)
	return f.view.Scripts()
}

func resolved(id int, output string) string {
	return "window.__FLURX__.__resolveIpc(" + strconv.Itoa(id) + ", " + output + ");"
}

func TestApp_NameAndVersion(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{})

	f.invoke(api.CmdAppGetName, nil, 1)
	f.invoke(api.CmdAppGetVersion, nil, 2)

	assert.Equal(t, []string{resolved(1, `"flurx"`), resolved(2, `"1.2.3"`)}, f.settle())
}

func TestApp_Exit(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{})

	f.invoke(api.CmdAppExit, nil, 1)

	assert.Equal(t, []string{resolved(1, `{"Ok":null}`)}, f.settle())
	assert.Equal(t, 1, f.exited)
}

func TestLog_Println(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{})

	f.emit(api.EventLogPrintln, `{"message":"hello from page"}`)
	f.settle()

	assert.Equal(t, "hello from page\n", f.stdout.String())
}

func TestLog_Level(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{})

	f.emit(api.EventLog, `{"message":"careful","level":"warn"}`)
	f.settle()

	assert.Contains(t, f.logs.String(), `"level":"warn"`)
	assert.Contains(t, f.logs.String(), `"message":"careful"`)
}

func TestClipboard_DisabledFallback(t *testing.T) {
	cfg := entity.DefaultWebviewConfig()
	cfg.ClipboardEnabled = false
	cb := portmocks.NewMockClipboard(t)
	f := newFixture(t, cfg, api.Options{Clipboard: cb})

	require.NoError(t, f.api.AttachClipboard(f.world, f.id))
	assert.False(t, world.Has[ipc.LocalCommands](f.world, f.id))

	f.invoke(api.CmdClipboardGetText, nil, 1)
	f.invoke(api.CmdClipboardSetText, "x", 2)

	assert.Equal(t, []string{
		resolved(1, `{"Err":"clipboard disabled"}`),
		resolved(2, `{"Err":"clipboard disabled"}`),
	}, f.settle())
}

func TestClipboard_GetText(t *testing.T) {
	cb := portmocks.NewMockClipboard(t)
	cb.EXPECT().ReadText(mock.Anything).Return("copied", nil).Once()
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{Clipboard: cb})
	require.NoError(t, f.api.AttachClipboard(f.world, f.id))

	f.invoke(api.CmdClipboardGetText, nil, 4)

	assert.Equal(t, []string{resolved(4, `"copied"`)}, f.settle())
}

func TestClipboard_SetText(t *testing.T) {
	cb := portmocks.NewMockClipboard(t)
	cb.EXPECT().WriteText(mock.Anything, "hi there").Return(nil).Once()
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{Clipboard: cb})
	require.NoError(t, f.api.AttachClipboard(f.world, f.id))

	f.invoke(api.CmdClipboardSetText, "hi there", 5)

	assert.Equal(t, []string{resolved(5, `null`)}, f.settle())
}

func TestClipboard_ErrorRejects(t *testing.T) {
	cb := portmocks.NewMockClipboard(t)
	cb.EXPECT().ReadText(mock.Anything).Return("", errors.New("no tool")).Once()
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{Clipboard: cb})
	require.NoError(t, f.api.AttachClipboard(f.world, f.id))

	f.invoke(api.CmdClipboardGetText, nil, 1)

	assert.Equal(t, []string{resolved(1, `{"Err":"no tool"}`)}, f.settle())
}

func TestClipboard_AttachKeepsExistingLocalCommands(t *testing.T) {
	cb := portmocks.NewMockClipboard(t)
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{Clipboard: cb})

	table, err := ipc.NewCommandTable(ipc.Sync("mine", func() int { return 1 }))
	require.NoError(t, err)
	world.Insert(f.world, f.id, ipc.LocalCommands{Table: table})

	require.NoError(t, f.api.AttachClipboard(f.world, f.id))
	require.NoError(t, f.api.AttachClipboard(f.world, f.id), "attaching twice is harmless")

	local, ok := world.Get[ipc.LocalCommands](f.world, f.id)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"mine", api.CmdClipboardGetText, api.CmdClipboardSetText}, local.Table.IDs())
}

func TestFs_RoundTrip(t *testing.T) {
	root := t.TempDir()
	fs, err := filesystem.New(root)
	require.NoError(t, err)
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{FS: fs})

	f.invoke(api.CmdFsCreateDir, api.CreateDirArgs{Path: "notes/daily", Recursive: true}, 1)
	assert.Equal(t, []string{resolved(1, `null`)}, f.settle())

	f.invoke(api.CmdFsWriteTextFile, api.WriteTextFileArgs{Path: "notes/daily/a.txt", Contents: "hello"}, 2)
	f.settle()
	data, err := os.ReadFile(filepath.Join(root, "notes", "daily", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	f.invoke(api.CmdFsReadTextFile, "notes/daily/a.txt", 3)
	f.invoke(api.CmdFsExists, "notes/daily/a.txt", 4)
	scripts := f.settle()
	assert.Contains(t, scripts, resolved(3, `"hello"`))
	assert.Contains(t, scripts, resolved(4, `true`))

	f.invoke(api.CmdFsRemoveFile, "notes/daily/a.txt", 5)
	f.settle()
	_, err = os.Stat(filepath.Join(root, "notes", "daily", "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestFs_ReadDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "x.txt"), []byte("12"), 0o644))
	fs, err := filesystem.New(root)
	require.NoError(t, err)
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{FS: fs})

	f.invoke(api.CmdFsReadDir, ".", 1)

	want := `[{"name":"x.txt","path":` + strconv.Quote(filepath.Join(root, "x.txt")) + `,"is_dir":false,"size":2}]`
	assert.Equal(t, []string{resolved(1, want)}, f.settle())
}

func TestFs_OutsideRootRejects(t *testing.T) {
	fs, err := filesystem.New(t.TempDir())
	require.NoError(t, err)
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{FS: fs})

	f.invoke(api.CmdFsReadTextFile, "../secret", 1)

	scripts := f.settle()
	require.Len(t, scripts, 1)
	assert.Contains(t, scripts[0], `{"Err":"path is outside the allowed directory`)
}

func TestFs_Disabled(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{})

	f.invoke(api.CmdFsExists, "a", 1)

	assert.Equal(t, []string{resolved(1, `{"Err":"filesystem disabled"}`)}, f.settle())
}

func TestPath_Commands(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{Paths: fakePaths{home: "/home/u"}})

	f.invoke(api.CmdPathHome, nil, 1)
	f.invoke(api.CmdPathConfig, nil, 2)
	f.invoke(api.CmdPathCache, nil, 3)
	f.invoke(api.CmdPathExecutable, nil, 4)

	assert.Equal(t, []string{
		resolved(1, `{"Ok":"/home/u"}`),
		resolved(2, `{"Ok":"/home/u/.config/flurx"}`),
		resolved(3, `{"Err":"no cache"}`),
		resolved(4, `{"Ok":"/usr/bin/flurx"}`),
	}, f.settle())
}

func TestPath_Unavailable(t *testing.T) {
	f := newFixture(t, entity.DefaultWebviewConfig(), api.Options{})

	f.invoke(api.CmdPathTemp, nil, 1)

	assert.Equal(t, []string{resolved(1, `{"Err":"paths unavailable"}`)}, f.settle())
}
