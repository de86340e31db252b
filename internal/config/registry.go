package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/clarionvoice/clarion/pkg/provider/hotword"
	"github.com/clarionvoice/clarion/pkg/provider/stt"
	"github.com/clarionvoice/clarion/pkg/provider/tts"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory has
// been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider names to their constructor functions for each
// provider type. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	hotword map[string]func(ProviderEntry) (hotword.Provider, error)
	stt     map[string]func(ProviderEntry) (stt.Provider, error)
	tts     map[string]func(ProviderEntry) (tts.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		hotword: make(map[string]func(ProviderEntry) (hotword.Provider, error)),
		stt:     make(map[string]func(ProviderEntry) (stt.Provider, error)),
		tts:     make(map[string]func(ProviderEntry) (tts.Provider, error)),
	}
}

// RegisterHotword registers a hotword provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterHotword(name string, factory func(ProviderEntry) (hotword.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotword[name] = factory
}

// RegisterSTT registers an STT provider factory under name.
func (r *Registry) RegisterSTT(name string, factory func(ProviderEntry) (stt.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stt[name] = factory
}

// RegisterTTS registers a TTS provider factory under name.
func (r *Registry) RegisterTTS(name string, factory func(ProviderEntry) (tts.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tts[name] = factory
}

// CreateHotword instantiates the hotword provider selected by entry.Name.
func (r *Registry) CreateHotword(entry ProviderEntry) (hotword.Provider, error) {
	r.mu.RLock()
	factory, ok := r.hotword[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("hotword %q: %w", entry.Name, ErrProviderNotRegistered)
	}
	return factory(entry)
}

// CreateSTT instantiates the STT provider selected by entry.Name.
func (r *Registry) CreateSTT(entry ProviderEntry) (stt.Provider, error) {
	r.mu.RLock()
	factory, ok := r.stt[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("stt %q: %w", entry.Name, ErrProviderNotRegistered)
	}
	return factory(entry)
}

// CreateTTS instantiates the TTS provider selected by entry.Name.
func (r *Registry) CreateTTS(entry ProviderEntry) (tts.Provider, error) {
	r.mu.RLock()
	factory, ok := r.tts[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tts %q: %w", entry.Name, ErrProviderNotRegistered)
	}
	return factory(entry)
}
