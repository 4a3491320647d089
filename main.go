// Package main is the entry point for the API server.
//
//	@title			Go API Starter
//	@version		1.0.0
//	@description	REST API boilerplate with JWT auth, centralized error classification, and layered configuration.
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import "github.com/nordstack/go-api-starter/cmd"

func main() {
	cmd.Execute()
}
