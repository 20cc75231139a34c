// Package api exposes the scoping layer over HTTP: per-resource list
// endpoints whose queries pass through the scoping filters, single-resource
// endpoints guarded by the access assertion, and the administrative
// settings endpoints.
//
// The server resolves principals through a pluggable resolver; the default
// reads X-User-ID and X-User-Role headers and is only safe behind a proxy
// that authenticates requests and strips those headers from clients.
package api
