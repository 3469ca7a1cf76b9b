package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwitchesFollowGOOS(t *testing.T) {
	assert.Equal(t, runtime.GOOS == "darwin", InvertY)
	assert.Equal(t, runtime.GOOS == "linux", WebviewDragDeltas)
}
