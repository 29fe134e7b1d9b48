/*
Package bus provides access to a singleton instance of an event bus (provided by the calling application). The
event bus is intended to allow for the library to publish events which library consumers can subscribe to. These
events can provide static information, but also have an object as a payload for which the consumer can poll for
updates. This is akin to a logger, except instead of only allowing strings to be logged, rich objects that can be
interacted with.

Note that the singleton instance is only allowed to publish events and not subscribe to them --this is intentional.
Publishing is fire-and-forget; if no bus has been set then events are dropped.
*/
package bus

import "github.com/wagoodman/go-partybus"

var publisher partybus.Publisher

// Set sets the singleton event bus publisher. This is optional; if no bus is provided, the library will behave no
// differently than if a bus had been provided.
func Set(p partybus.Publisher) {
	publisher = p
}

// Publish an event onto the bus. If there is no bus set by the calling application, this does nothing.
func Publish(event partybus.Event) {
	if publisher != nil {
		publisher.Publish(event)
	}
}
