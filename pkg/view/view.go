package view

import (
	"bytes"
	_ "embed"

	"github.com/foomo/dxtree/content"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Placeholder token in the html template that is replaced with the hierarchy json
const Placeholder = "FOLDER_DATA_PLACEHOLDER"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed FolderBrowser.html
var folderBrowserHTML []byte

// Render injects serialized hierarchy json into the folder browser page.
// The json must not contain unescaped html, use RenderHierarchy for that.
func Render(hierarchyJSON []byte) []byte {
	return bytes.ReplaceAll(folderBrowserHTML, []byte(Placeholder), hierarchyJSON)
}

// RenderHierarchy serializes the hierarchy and renders the folder browser page
func RenderHierarchy(h content.Hierarchy) ([]byte, error) {
	data, err := json.Marshal(content.SerializeHierarchy(h))
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize hierarchy")
	}
	return Render(data), nil
}
