// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pkpass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/pkpass-converter/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadDescriptor reads and decodes the pass.json at path. Missing optional
// fields decode to their zero values; the accessors on types.PassDescriptor
// apply the defaults. Errors wrap types.ErrAssetIO when the file cannot be
// read and types.ErrInvalidDescriptor when it is not valid JSON.
func ReadDescriptor(path string) (types.PassDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PassDescriptor{}, fmt.Errorf("%w: reading %s: %v", types.ErrAssetIO, filepath.Base(path), err)
	}
	return ParseDescriptor(data)
}

// ParseDescriptor decodes pass.json content. A leading UTF-8 byte order mark
// is ignored.
func ParseDescriptor(data []byte) (types.PassDescriptor, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var d types.PassDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return types.PassDescriptor{}, fmt.Errorf("%w: %v", types.ErrInvalidDescriptor, err)
	}
	return d, nil
}
