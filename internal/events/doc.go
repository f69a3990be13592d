// Package events decouples services from the background task machinery.
// Services emit TaskRequestEvents describing work that should happen
// asynchronously, and registered handlers turn those events into concrete
// tasks without the services knowing about the task package.
package events
