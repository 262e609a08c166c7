package eventbus

import "sync"

var (
	instanceMux sync.Mutex
	instanceBus *Bus
)

// Instance returns the process-wide [Bus], creating it over the [DefaultCatalog] on first use.
// The returned bus still needs to be initialized.
func Instance() *Bus {
	instanceMux.Lock()
	defer instanceMux.Unlock()
	if instanceBus == nil {
		// Can't fail without config funcs.
		instanceBus, _ = New()
	}
	return instanceBus
}

// InitInstance creates the process-wide [Bus] with the given config funcs and initializes it.
// Returns false if the instance already existed, in which case configFuncs are ignored.
func InitInstance(configFuncs ...ConfigFunc) (bool, error) {
	instanceMux.Lock()
	defer instanceMux.Unlock()
	if instanceBus != nil {
		return false, nil
	}
	b, err := New(configFuncs...)
	if err != nil {
		return false, err
	}
	if err := b.Initialize(); err != nil {
		return false, err
	}
	instanceBus = b
	return true, nil
}
