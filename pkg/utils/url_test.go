package utils_test

import (
	"testing"

	"github.com/foomo/dxtree/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {
	assert.True(t, utils.IsValidURL("https://developer.api.autodesk.com/dataexchange/2023-05/graphql"))
	assert.True(t, utils.IsValidURL("http://127.0.0.1:8080/graphql"))

	for _, s := range []string{"", "bogus", "htt:/notaurl", "htts://notaurl", "/path/segment/only", "http://", "%zz"} {
		assert.False(t, utils.IsValidURL(s), s)
	}
}
