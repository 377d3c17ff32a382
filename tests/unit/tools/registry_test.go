package tools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic14/mosaic/internal/tools"
)

func TestRegistry_Get(t *testing.T) {
	r := tools.NewRegistry(
		tools.Definition{Name: "echo", Description: "Echoes the input", Kind: tools.KindBuiltin},
		tools.Definition{Name: "notify", Description: "Posts to a webhook", Kind: tools.KindWebhook},
	)

	d, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", d.Name)
	assert.Equal(t, tools.KindBuiltin, d.Kind)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_ListSortedByName(t *testing.T) {
	r := tools.NewRegistry(
		tools.Definition{Name: "zeta", Kind: tools.KindBuiltin},
		tools.Definition{Name: "alpha", Kind: tools.KindBuiltin},
		tools.Definition{Name: "mid", Kind: tools.KindWebhook},
	)

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestRegistry_Empty(t *testing.T) {
	r := tools.NewRegistry()

	assert.NotNil(t, r.List())
	assert.Empty(t, r.List())
}

func TestRegistry_DuplicateNamesLastWins(t *testing.T) {
	r := tools.NewRegistry(
		tools.Definition{Name: "echo", Description: "first"},
		tools.Definition{Name: "echo", Description: "second"},
	)

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Description)
}

func TestBuiltin(t *testing.T) {
	r := tools.Builtin()

	for _, name := range []string{"current_time", "remember", "recall"} {
		d, ok := r.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, tools.KindBuiltin, d.Kind)
		assert.NotEmpty(t, d.Description)
	}
}
