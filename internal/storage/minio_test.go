package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contractscan/contract-risk-scanner/internal/common"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_contract.pdf", sanitizeName("my contract.pdf"))
	assert.Equal(t, "contract.pdf", sanitizeName("  contract.pdf  "))
	// path components never leak into the object key
	assert.Equal(t, "evil_name.pdf", sanitizeName("../../evil name.pdf"))
}

func TestNewMinIOStoreRejectsBadEndpoint(t *testing.T) {
	_, err := NewMinIOStore(common.StorageConfig{Endpoint: "http://host with spaces"}, nil)
	assert.Error(t, err)
}
