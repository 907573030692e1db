package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		raw      string
		wantName string
		wantType string
	}{
		{"item", "item", "Item"},
		{"Item", "item", "Item"},
		{"UserProfile", "user_profile", "UserProfile"},
		{"userProfile", "user_profile", "UserProfile"},
		{"order-line", "order_line", "OrderLine"},
		{"order line", "order_line", "OrderLine"},
		{"HTTPServer", "http_server", "HttpServer"},
		{"  shop  ", "shop", "Shop"},
		{"a--b", "a_b", "AB"},
		{"v2_items", "v2_items", "V2Items"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := Resolve(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, d.Raw)
			assert.Equal(t, tt.wantName, d.Name)
			assert.Equal(t, tt.wantType, d.Type)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"path separator", "foo/bar"},
		{"dot", "foo.bar"},
		{"leading digit", "9lives"},
		{"only separators", "---"},
		{"non ascii", "café"},
		{"python keyword", "class"},
		{"keyword after folding", "Import"},
		{"method receiver", "self"},
		{"class receiver", "Cls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidName)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	for _, raw := range []string{"item", "UserProfile", "order-line", "HTTPServer"} {
		first, err := Resolve(raw)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := Resolve(raw)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestDescriptorPaths(t *testing.T) {
	d, err := Resolve("OrderLine")
	require.NoError(t, err)

	assert.Equal(t, "src/order_line", d.Dir())
	assert.Equal(t, "src/order_line/order_line_service.py", d.File("service"))
	assert.Equal(t, "src/order_line/__init__.py", d.InitFile())
	assert.Equal(t, "src.order_line.order_line_module", d.Import("module"))
	assert.Equal(t, "OrderLineModule", d.ModuleClass())
}

func TestValidateProjectName(t *testing.T) {
	for _, ok := range []string{"shop", "my-shop", "shop_v2", "shop.api"} {
		assert.NoError(t, ValidateProjectName(ok), ok)
	}
	for _, bad := range []string{"", " shop", ".", "..", "a/b", `a\b`, "shöp"} {
		assert.ErrorIs(t, ValidateProjectName(bad), ErrInvalidName, bad)
	}
}

func TestPascalCase(t *testing.T) {
	assert.Equal(t, "Item", PascalCase("item"))
	assert.Equal(t, "OrderLine", PascalCase("order_line"))
	assert.Equal(t, "", PascalCase(""))
}
