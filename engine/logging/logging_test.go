package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger("stage", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	l.Infof("frame %d", 2)
	l.Warnf("slow")
	l.Errorf("lost device")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[stage] INFO: frame 2")
	assert.Contains(t, errOut.String(), "[stage] WARN: slow")
	assert.Contains(t, errOut.String(), "[stage] ERROR: lost device")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("shown")
	assert.Contains(t, out.String(), "[stage] DEBUG: shown")
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	assert.NotNil(t, l)
	assert.False(t, l.DebugEnabled())
	l.Errorf("discarded")

	d := NewDefaultLogger("", false)
	assert.Same(t, d, OrNop(d))
}
