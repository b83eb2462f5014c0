package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/notebook/internal/event"
	"github.com/bethropolis/notebook/internal/logger"
	"github.com/bethropolis/notebook/internal/plugin"
	"github.com/bethropolis/notebook/internal/textutil"
)

// Ensure AutoSave implements plugin.Plugin
var _ plugin.Plugin = (*AutoSave)(nil)

const (
	// Default configuration values
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoSave plugin writes the notebook back to its file, periodically and
// shortly after edits when a delay is configured.
type AutoSave struct {
	api plugin.EditorAPI // To interact with the editor

	// Configuration
	mutex    sync.RWMutex // Protects access to config fields below
	enabled  bool
	interval time.Duration
	delay    time.Duration // 0 disables saving after edits

	// Runtime state
	debouncer textutil.Debouncer
	saveMu    sync.Mutex     // one save at a time
	stopChan  chan struct{}  // Signals the saver goroutine to stop
	wg        sync.WaitGroup // Waits for the goroutine to finish
}

// New creates a new instance of the AutoSave plugin.
func New() plugin.Plugin {
	return &AutoSave{
		// Initialize with defaults, config will override in Initialize
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and starts the auto-save loop if enabled.
func (p *AutoSave) Initialize(api plugin.EditorAPI) error {
	p.api = api
	pluginName := p.Name()

	p.mutex.Lock()
	if enabledVal, ok := api.GetPluginConfigValue(pluginName, "enabled"); ok {
		if boolVal, isBool := enabledVal.(bool); isBool {
			p.enabled = boolVal
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", pluginName, enabledVal, p.enabled)
		}
	}
	p.interval = p.readDuration("interval", p.interval)
	p.delay = p.readDuration("delay", 0)

	isEnabled := p.enabled
	interval, delay := p.interval, p.delay
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v, Delay: %v", pluginName, isEnabled, interval, delay)
	if !isEnabled {
		return nil
	}

	p.stopChan = make(chan struct{})
	p.wg.Add(1)
	go p.saverLoop(interval)

	if delay > 0 {
		api.SubscribeEvent(event.TypeSequenceCommitted, func(event.Event) bool {
			p.debouncer.Debounce(delay, p.saveIfModified)
			return false
		})
	}
	return nil
}

// readDuration parses a positive duration string from the plugin table.
func (p *AutoSave) readDuration(key string, def time.Duration) time.Duration {
	val, ok := p.api.GetPluginConfigValue(p.Name(), key)
	if !ok {
		logger.Debugf("%s: Config '%s' not found, using default (%v)", p.Name(), key, def)
		return def
	}
	strVal, isStr := val.(string)
	if !isStr {
		logger.Warnf("%s: Invalid type for '%s' config (%T), using default (%v)", p.Name(), key, val, def)
		return def
	}
	parsed, err := time.ParseDuration(strVal)
	if err != nil {
		logger.Warnf("%s: Invalid format for '%s' config ('%s'): %v. Using default (%v)", p.Name(), key, strVal, err, def)
		return def
	}
	if parsed <= 0 {
		logger.Warnf("%s: '%s' config must be positive ('%s'). Using default (%v)", p.Name(), key, strVal, def)
		return def
	}
	return parsed
}

// Shutdown stops the saver goroutine and any pending delayed save, then
// saves one last time.
func (p *AutoSave) Shutdown() error {
	p.mutex.RLock()
	isEnabled := p.enabled
	p.mutex.RUnlock()

	if isEnabled && p.stopChan != nil {
		p.debouncer.Stop()
		close(p.stopChan)
		p.wg.Wait()
		p.saveIfModified()
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

// saverLoop is the main loop for the auto-save functionality.
func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.saveIfModified()
		case <-p.stopChan:
			return
		}
	}
}

// saveIfModified saves the document when it has unsaved changes and a path.
func (p *AutoSave) saveIfModified() {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	if !p.api.IsModified() {
		return
	}
	filePath := p.api.DocumentPath()
	if filePath == "" {
		logger.Debugf("%s: Document is modified but has no path, skipping auto-save.", p.Name())
		return
	}

	if err := p.api.SaveDocument(); err != nil {
		logger.Errorf("%s: Auto-save failed for '%s': %v", p.Name(), filePath, err)
		return
	}
	logger.Debugf("%s: Auto-saved '%s'", p.Name(), filePath)
}
