package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/princeton-ddss/lsh/pkg/version"
)

func TestInitBinaryVersion_KeepsValues(t *testing.T) {
	version.InitBinaryVersion()

	assert.NotEmpty(t, version.Version)
	assert.NotEmpty(t, version.Commit)
	assert.NotEmpty(t, version.Date)
}
