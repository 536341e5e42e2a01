package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/dota-draft-assistant/internal/domain"
)

func TestDecodeBuild(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "ai build", raw: `{"starting_items": ["tango"], "source": "ai"}`},
		{name: "meta build", raw: `{"source": "meta"}`},
		{name: "malformed", raw: "{not json", wantErr: true},
		{name: "null", raw: "null", wantErr: true},
		{name: "empty object", raw: "{}", wantErr: true},
		{name: "model-supplied source", raw: `{"source": "openai"}`, wantErr: true},
		{name: "wrong field type", raw: `{"starting_items": "tango", "source": "ai"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			build, err := DecodeBuild([]byte(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCorruptRecord)
				assert.Nil(t, build)
				return
			}
			require.NoError(t, err)
			assert.True(t, build.Source.IsValid())
		})
	}
}

func TestEncodeBuild_RoundTrip(t *testing.T) {
	build := &domain.DetailedBuild{
		StartingItems: []string{"tango"},
		Talents:       map[string]string{"10": "+hp"},
		Source:        domain.SourceFallback,
	}

	data, err := EncodeBuild(build)
	require.NoError(t, err)

	got, err := DecodeBuild(data)
	require.NoError(t, err)
	assert.Equal(t, build, got)

	_, err = EncodeBuild(nil)
	assert.Error(t, err)
}
