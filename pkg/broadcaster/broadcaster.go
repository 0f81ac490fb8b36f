// Package broadcaster implements a trivial fanout style event broadcaster using generics.
// Readers receive events matching their registered keys, or every event when
// registered without keys.
package broadcaster

import (
	"errors"
	"slices"
	"sync"
)

var ErrDuplicateChannel = errors.New("duplicate channel registration")

type Broadcaster[T comparable, V any] struct {
	readerMap    map[T][]chan<- V
	allReaders   []chan<- V
	readerMapMu  *sync.RWMutex
	allReadersMu *sync.RWMutex
}

func New[T comparable, V any]() *Broadcaster[T, V] {
	return &Broadcaster[T, V]{
		readerMap:    map[T][]chan<- V{},
		readerMapMu:  &sync.RWMutex{},
		allReadersMu: &sync.RWMutex{},
	}
}

// Consume will register a channel to receive new events as they come in. If no
// event keys are provided, all events will be sent.
func (eb *Broadcaster[k, v]) Consume(eventChan chan v, keys ...k) error {
	if len(keys) > 0 {
		eb.readerMapMu.Lock()
		for _, key := range keys {
			_, found := eb.readerMap[key]
			if !found {
				eb.readerMap[key] = []chan<- v{}
			}

			eb.readerMap[key] = append(eb.readerMap[key], eventChan)
		}
		eb.readerMapMu.Unlock()
	} else {
		eb.allReadersMu.Lock()
		if slices.Contains(eb.allReaders, (chan<- v)(eventChan)) {
			eb.allReadersMu.Unlock()

			return ErrDuplicateChannel
		}

		eb.allReaders = append(eb.allReaders, eventChan)
		eb.allReadersMu.Unlock()
	}

	return nil
}

// Emit is used to send out events to all registered reader channels.
func (eb *Broadcaster[k, v]) Emit(key k, value v) {
	eb.allReadersMu.RLock()
	eb.readerMapMu.RLock()

	specificReaders, specificReadersFound := eb.readerMap[key]

	readerChannels := eb.allReaders

	if specificReadersFound {
		readerChannels = append(readerChannels, specificReaders...)
	}

	for _, reader := range readerChannels {
		reader <- value
	}

	eb.readerMapMu.RUnlock()
	eb.allReadersMu.RUnlock()
}

func (eb *Broadcaster[k, v]) removeChan(channels []chan<- v, eventChan chan<- v) []chan<- v {
	var newChannels []chan<- v

	for _, channel := range channels {
		if channel != eventChan {
			newChannels = append(newChannels, channel)
		}
	}

	return newChannels
}

// Unregister will remove the channel from any matching event readers.
func (eb *Broadcaster[k, v]) Unregister(value chan<- v) error {
	eb.readerMapMu.Lock()

	for eType, eventReaders := range eb.readerMap {
		eb.readerMap[eType] = eb.removeChan(eventReaders, value)
	}

	eb.readerMapMu.Unlock()

	eb.allReadersMu.Lock()
	eb.allReaders = eb.removeChan(eb.allReaders, value)
	eb.allReadersMu.Unlock()

	return nil
}
