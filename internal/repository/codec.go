package repository

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/dom/dota-draft-assistant/internal/domain"
)

var ErrCorruptRecord = errors.New("corrupt build record")

// EncodeBuild is the storage encoding shared by every cache backend.
func EncodeBuild(build *domain.DetailedBuild) ([]byte, error) {
	if build == nil {
		return nil, fmt.Errorf("nil build")
	}
	data, err := json.Marshal(build)
	if err != nil {
		return nil, fmt.Errorf("marshal build: %w", err)
	}
	return data, nil
}

// DecodeBuild decodes a stored build. Records without a known source, including
// null and empty documents, are corrupt.
func DecodeBuild(data []byte) (*domain.DetailedBuild, error) {
	var build *domain.DetailedBuild
	if err := json.Unmarshal(data, &build); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if build == nil {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptRecord)
	}
	if !build.Source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source %q", ErrCorruptRecord, build.Source)
	}
	return build, nil
}
