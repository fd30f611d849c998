package module

// RegisterBuiltins registers every built-in module type with the registry.
// Adding a new module means writing its constructor and listing it here.
func RegisterBuiltins(r *Registry) {
	r.RegisterType("weather", NewWeatherModule)
	r.RegisterType("stocks", NewStocksModule)
	r.RegisterType("crypto", NewCryptoModule)
	r.RegisterType("news", NewNewsModule)
	r.RegisterType("sysinfo", NewSysinfoModule)
	r.RegisterType("clock", NewClockModule)
}
