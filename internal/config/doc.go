// Package config provides configuration structures and utilities for
// deckaudit. It defines the main options for auditing presentations,
// fix application, screenshot capture, and report generation preferences.
package config
