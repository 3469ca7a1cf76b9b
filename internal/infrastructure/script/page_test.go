package script

import (
	"testing"

	"github.com/bnema/flurx/internal/testutil/jspage"
)

func newPage(t *testing.T, id string, userScripts ...string) *jspage.Page {
	t.Helper()
	return jspage.New(t, Compose(id, userScripts))
}
