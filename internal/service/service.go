// Package service contains the business logic.
//
// It sits between the handler layer and the upstream client. It receives
// validated payloads from handlers and performs the subscription call.
package service
