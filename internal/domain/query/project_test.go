package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Hidden   string   `json:"hidden"`
	Children []string `json:"children,omitempty"`
}

func TestProject(t *testing.T) {
	items := []item{{ID: "1", Name: "a", Price: 10, Hidden: "x"}}

	out, err := Project(items, []string{"name", "price"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": "1", "name": "a", "price": float64(10)}}, out)
}

func TestProject_NoSelectKeepsAll(t *testing.T) {
	out, err := Project([]item{{ID: "1", Hidden: "x"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", out[0]["hidden"])
}

func TestProject_Populate(t *testing.T) {
	items := []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b", Children: []string{"c"}}}

	out, err := Project(items, []string{"name"}, "children")
	require.NoError(t, err)
	assert.Equal(t, []any{}, out[0]["children"])
	assert.Equal(t, []any{"c"}, out[1]["children"])
	assert.NotContains(t, out[1], "price")
}

func TestProject_Empty(t *testing.T) {
	out, err := Project([]item(nil), nil)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
