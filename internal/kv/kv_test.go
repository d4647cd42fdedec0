package kv

import (
	"testing"

	"github.com/andrewhowdencom/md2dita/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDigest(t *testing.T) {
	opts := model.DefaultOptions()

	assert.Equal(t, Digest("# A", opts), Digest("# A", opts))
	assert.NotEqual(t, Digest("# A", opts), Digest("# B", opts))

	noShortdesc := opts
	noShortdesc.Shortdesc = false
	assert.NotEqual(t, Digest("# A", opts), Digest("# A", noShortdesc))

	lang := opts
	lang.Lang = "en-US"
	assert.NotEqual(t, Digest("# A", opts), Digest("# A", lang))

	// Empty tokens fall back to the defaults.
	empty := model.Options{Shortdesc: true}
	assert.Equal(t, Digest("# A", opts), Digest("# A", empty))
}

func TestGenerateShortID(t *testing.T) {
	id := GenerateShortID("abc")
	assert.Len(t, id, 8)
	assert.Equal(t, id, GenerateShortID("abc"))
	assert.NotEqual(t, id, GenerateShortID("abd"))
}
