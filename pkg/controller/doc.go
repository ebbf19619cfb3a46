// Package controller holds the HTTP plumbing shared by the API and the bot's
// health server: request ID tagging with access logs (WithLogger), CORS for
// browser clients (WithCORS), request body limits (WithBodyLimit) and the
// profiling endpoints (PprofMux).
package controller
