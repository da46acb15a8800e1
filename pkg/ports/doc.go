// Package ports declares the driven-side interfaces of the workflow:
// session persistence, distributed locking, text completion, web search,
// and artifact storage. Adapters live under pkg/adapters.
package ports
