package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/nestling/internal/naming"
)

func TestAppendToList(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "modules=[]", "modules=[ItemModule]"},
		{"inline", "modules=[UserModule]", "modules=[UserModule, ItemModule]"},
		{"inline trailing comma", "modules = [UserModule,]", "modules = [UserModule, ItemModule]"},
		{
			"one per line",
			"modules=[\n        UserModule,\n    ]",
			"modules=[\n        UserModule,\n        ItemModule,\n    ]",
		},
		{
			"one per line without trailing comma",
			"modules=[\n    UserModule\n]",
			"modules=[\n    UserModule,\n    ItemModule\n]",
		},
		{
			"comment after last entry",
			"modules=[\n    UserModule  # core\n]",
			"modules=[\n    UserModule,  # core\n    ItemModule\n]",
		},
		{
			"comment after last entry with comma",
			"modules=[\n    UserModule,  # core\n]",
			"modules=[\n    UserModule,  # core\n    ItemModule,\n]",
		},
		{
			"inline entry with comment",
			"modules=[UserModule  # core\n]",
			"modules=[UserModule,  # core\nItemModule\n]",
		},
		{
			"only comments",
			"modules=[\n    # none yet\n]",
			"modules=[\n    # none yet\n    ItemModule\n]",
		},
		{"already there", "modules=[ItemModule, UserModule]", "modules=[ItemModule, UserModule]"},
		{"nested brackets", "modules=[Wrap([A])]", "modules=[Wrap([A]), ItemModule]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := appendToList(tt.src, modulesList, "ItemModule")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := appendToList("app = App()", modulesList, "ItemModule")
	assert.ErrorIs(t, err, ErrMissingConfig)
	_, err = appendToList("modules=[A, B", modulesList, "ItemModule")
	assert.ErrorIs(t, err, ErrMissingConfig)
	_, err = appendToList("document_models=[]", modulesList, "ItemModule")
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestImportSources(t *testing.T) {
	src := `from nest.core.app import App
from src.item2.item2_module import Item2Module
from src.legacy import (
    OldModule,
    Thing as Item2Module,  # shadowing
)
from src.user.user_module import UserModule  # Item2Module
`
	assert.Equal(t, []string{"src.item2.item2_module", "src.legacy"}, importSources(src, "Item2Module"))
	assert.Equal(t, []string{"src.user.user_module"}, importSources(src, "UserModule"))
	assert.Empty(t, importSources(src, "Thing"))
	assert.Empty(t, importSources(src, "OrderModule"))
}

func TestInsertImport(t *testing.T) {
	line := "from src.item.item_module import ItemModule"

	assert.Equal(t,
		"import os\nfrom x import (\n    a,\n    b,\n)\n"+line+"\n\napp = 1\n",
		insertImport("import os\nfrom x import (\n    a,\n    b,\n)\n\napp = 1\n", line))

	assert.Equal(t,
		"# header\nimport os\n"+line+"\n\nx = 1\nimport late\n",
		insertImport("# header\nimport os\n\nx = 1\nimport late\n", line))

	assert.Equal(t, line+"\napp = 1", insertImport("app = 1", line))

	src := "import os\n" + line + "\n"
	assert.Equal(t, src, insertImport(src, line))
}

func TestRegisterModule_Idempotent(t *testing.T) {
	d, err := naming.Resolve("order-line")
	require.NoError(t, err)

	src := []byte("from nest.core.app import App\n\napp = App(\n    modules=[]\n)\n")
	patch := registerModule(d)

	once, err := patch(src)
	require.NoError(t, err)
	assert.Equal(t,
		"from nest.core.app import App\nfrom src.order_line.order_line_module import OrderLineModule\n\napp = App(\n    modules=[OrderLineModule]\n)\n",
		string(once))

	twice, err := patch(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice))
}

func TestRegisteredModules(t *testing.T) {
	got, err := registeredModules("app = App(\n    modules=[\n        A,  # first\n        B,\n    ]\n)\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}
