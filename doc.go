// Package main provides the entry point for the GoInvenTree inventory
// management application. It runs a web server using the Fiber
// framework that exposes a REST API for managing parts, part
// categories, plugin configurations and the settings declared by
// plugins and notification methods. The application uses gorm for data
// persistence.
package main
