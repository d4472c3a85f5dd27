package lanscan

import (
	"sync"

	"github.com/marcuoli/go-lanscan/pkg/lanscan/arp"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/dns"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/netbios"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/oui"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/probe"
	"github.com/marcuoli/go-lanscan/pkg/lanscan/smb"
)

// DebugLevel represents the verbosity level for debug logging.
type DebugLevel int

const (
	// DebugOff disables all debug logging.
	DebugOff DebugLevel = iota
	// DebugBasic logs scan progress and absorbed failures.
	DebugBasic
	// DebugVerbose additionally logs every probe and lookup.
	DebugVerbose
)

// DebugLogger receives debug messages. component tells which part of the
// engine produced the message.
type DebugLogger func(component Component, format string, args ...interface{})

var (
	debugLogger DebugLogger
	debugLevel  DebugLevel
	debugMu     sync.RWMutex
)

// SetDebugLogger sets the debug logger callback. Pass nil to disable.
func SetDebugLogger(logger DebugLogger) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugLogger = logger
}

// SetDebugLevel sets the debug verbosity level.
func SetDebugLevel(level DebugLevel) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugLevel = level
}

// GetDebugLevel returns the current debug level.
func GetDebugLevel() DebugLevel {
	debugMu.RLock()
	defer debugMu.RUnlock()
	return debugLevel
}

func logAt(atLeast DebugLevel, component Component, format string, args ...interface{}) {
	debugMu.RLock()
	logger := debugLogger
	level := debugLevel
	debugMu.RUnlock()

	if logger != nil && level >= atLeast {
		logger(component, format, args...)
	}
}

func debugLog(component Component, format string, args ...interface{}) {
	logAt(DebugBasic, component, format, args...)
}

func debugLogVerbose(component Component, format string, args ...interface{}) {
	logAt(DebugVerbose, component, format, args...)
}

// Subpackage messages are per probe or per lookup, so they are verbose.
func init() {
	probe.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentProbe, format, args...)
	}
	dns.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentDNS, format, args...)
	}
	netbios.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentNetBIOS, format, args...)
	}
	arp.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentARP, format, args...)
	}
	oui.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentVendor, format, args...)
	}
	smb.DebugLogger = func(format string, args ...interface{}) {
		debugLogVerbose(ComponentSMB, format, args...)
	}
}
