package config

import "time"

// Base application details
const AppName = "notebook"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "notebook.log"
const DefaultScriptsDirName = "scripts"
const DefaultThemesDirName = "themes"

// Worker queue depth for dispatches waiting on the host
const DefaultDispatchQueue = 64

// Undo steps kept per notebook
const DefaultHistorySize = 100

// Status bar
const StatusBarHeight = 1
const MessageTimeout = 4 * time.Second

const SystemClipboard = true
