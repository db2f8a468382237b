// FILE: lixenwraith/fanlog/gate.go
package fanlog

import (
	"sync"
)

// suppressedSources are third-party sources too chatty at the default level
var suppressedSources = []string{
	"urllib3.response",
	"urllib3.connection",
	"elasticsearch.trace",
	"requests.packages.urllib3.util",
	"requests.packages.urllib3.util.retry",
	"urllib3.util",
	"requests.packages.urllib3.response",
	"requests.packages.urllib3.contrib.pyopenssl",
	"requests.packages",
	"urllib3.util.retry",
	"requests.packages.urllib3.contrib",
	"requests.packages.urllib3.connectionpool",
	"requests.packages.urllib3.poolmanager",
	"urllib3.connectionpool",
	"requests.packages.urllib3.connection",
	"elasticsearch",
	"log_request_fail",
	"requests",
	"selenium.webdriver.remote.remote_connection",
	"selenium.webdriver.remote",
	"selenium.webdriver",
	"selenium",
	"MARKDOWN",
	"build_extension",
	"calculate_area",
	"largest_image_url",
	"newspaper.images",
	"newspaper",
	"Importing",
	"PIL",
}

// SuppressedSources returns the source names raised to the suppress level by default
func SuppressedSources() []string {
	out := make([]string, len(suppressedSources))
	copy(out, suppressedSources)
	return out
}

// levelGate holds minimum levels per exact source name
type levelGate struct {
	mu           sync.RWMutex
	defaultLevel int64
	levels       map[string]int64
}

func newLevelGate(defaultLevel int64) *levelGate {
	return &levelGate{defaultLevel: defaultLevel, levels: make(map[string]int64)}
}

// set installs a minimum level for one source
func (g *levelGate) set(source string, level int64) {
	g.mu.Lock()
	g.levels[source] = level
	g.mu.Unlock()
}

// setDefault changes the level for sources without an entry
func (g *levelGate) setDefault(level int64) {
	g.mu.Lock()
	g.defaultLevel = level
	g.mu.Unlock()
}

// threshold returns the effective minimum level of a source
func (g *levelGate) threshold(source string) int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if lvl, ok := g.levels[source]; ok {
		return lvl
	}
	return g.defaultLevel
}

// admits reports whether a record of level from source passes the gate
func (g *levelGate) admits(source string, level int64) bool {
	return level >= g.threshold(source)
}
