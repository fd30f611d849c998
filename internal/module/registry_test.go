package module

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry(nil)
	r.RegisterType("static", func(cfg config.ModuleSettings) (Module, error) {
		return &fakeModule{id: cfg.Name, name: cfg.Param("title", cfg.Name), rec: model.Record{"text": "x"}}, nil
	})
	return r
}

func TestConfigurePreservesOrder(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Configure([]config.ModuleSettings{
		{Name: "gamma", Module: "static"},
		{Name: "alpha", Module: "static"},
		{Name: "beta", Module: "static"},
	})
	require.NoError(t, err)

	mods := r.Modules()
	require.Len(t, mods, 3)
	require.Equal(t, "gamma", mods[0].ID())
	require.Equal(t, "alpha", mods[1].ID())
	require.Equal(t, "beta", mods[2].ID())

	infos := r.List()
	require.Equal(t, "gamma", infos[0].ID)
	require.Equal(t, "static", infos[0].Type)
	require.True(t, infos[0].Enabled)
}

func TestConfigureNoModules(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Configure(nil)
	require.ErrorIs(t, err, ErrNoModules)
}

func TestConfigureUnknownType(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Configure([]config.ModuleSettings{
		{Name: "w", Module: "does-not-exist"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "module w")
	require.Contains(t, err.Error(), "does-not-exist")
}

func TestConfigureDuplicateName(t *testing.T) {
	r := newTestRegistry(t)
	err := r.Configure([]config.ModuleSettings{
		{Name: "same", Module: "static"},
		{Name: "same", Module: "static"},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}

func TestEnableDisable(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Configure([]config.ModuleSettings{
		{Name: "a", Module: "static"},
		{Name: "b", Module: "static"},
	}))

	require.True(t, r.IsEnabled("a"))
	require.NoError(t, r.Disable("a"))
	require.False(t, r.IsEnabled("a"))

	// Disabled modules are skipped, order of the rest is preserved.
	enabled := r.EnabledModules()
	require.Len(t, enabled, 1)
	require.Equal(t, "b", enabled[0].ID())

	require.NoError(t, r.Enable("a"))
	require.Len(t, r.EnabledModules(), 2)

	require.ErrorIs(t, r.Enable("missing"), ErrModuleNotFound)
	require.ErrorIs(t, r.Disable("missing"), ErrModuleNotFound)
}

func TestRegisterBuiltinsConstructors(t *testing.T) {
	r := NewRegistry(nil)
	RegisterBuiltins(r)

	// Constructors validate their params and name the failing module.
	err := r.Configure([]config.ModuleSettings{
		{Name: "wx", Module: "weather"}, // missing city
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "city")

	err = r.Configure([]config.ModuleSettings{
		{Name: "wx", Module: "weather", Params: map[string]string{"city": "Oslo"}},
		{Name: "clk", Module: "clock"},
		{Name: "sys", Module: "sysinfo"},
	})
	require.NoError(t, err)
	require.Len(t, r.Modules(), 3)
}
