package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectLineReader_ReadLine_skipsBlanksByDefault(t *testing.T) {
	assert := assert.New(t)

	r := NewDirectReader(strings.NewReader("\n   \nhello\n"))
	defer r.Close()

	line, err := r.ReadLine()
	assert.NoError(err)
	assert.Equal("hello", line)
}

func Test_DirectLineReader_ReadLine_allowBlankReturnsEmptyLine(t *testing.T) {
	assert := assert.New(t)

	r := NewDirectReader(strings.NewReader("\nhello\n"))
	defer r.Close()
	r.AllowBlank(true)

	line, err := r.ReadLine()
	assert.NoError(err)
	assert.Equal("", line)
}

func Test_DirectLineReader_ReadLine_eofWithNoFinalLine(t *testing.T) {
	assert := assert.New(t)

	r := NewDirectReader(strings.NewReader(""))
	defer r.Close()

	line, err := r.ReadLine()
	assert.ErrorIs(err, io.EOF)
	assert.Equal("", line)
}

func Test_DirectLineReader_ReadLine_trimsSurroundingWhitespace(t *testing.T) {
	assert := assert.New(t)

	r := NewDirectReader(strings.NewReader("   padded line   \n"))
	defer r.Close()

	line, err := r.ReadLine()
	assert.NoError(err)
	assert.Equal("padded line", line)
}

func Test_InteractiveLineReader_SetPrompt_updatesGetPrompt(t *testing.T) {
	assert := assert.New(t)

	ilr, err := NewInteractiveReader()
	if err != nil {
		t.Skipf("readline unavailable in this environment: %v", err)
	}
	defer ilr.Close()

	assert.Equal("> ", ilr.GetPrompt())

	ilr.SetPrompt("ictiobus> ")
	assert.Equal("ictiobus> ", ilr.GetPrompt())
}
