package content_test

import (
	"bytes"
	"testing"

	"github.com/foomo/dxtree/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, content.PrintTree(&buf, testTree()))

	expected := "" +
		"└─ 📁 Root\n" +
		"   ├─ 📄 model.rvt\n" +
		"   ├─ 📄 plan.dwg\n" +
		"   ├─ 🔁 walls\n" +
		"   ├─ 📁 Sub\n" +
		"   │  └─ 📄 site.ifc\n" +
		"   └─ 📁 Empty\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrintTreeLeaf(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, content.PrintTree(&buf, &content.FolderNode{Name: "Leaf"}))
	assert.Equal(t, "└─ 📁 Leaf\n", buf.String())
}
