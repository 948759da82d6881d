package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/carlosrabelo/storecheck/domain/entities"
)

// ClientFactory builds an unconnected client for a device session
type ClientFactory func(cfg entities.DeviceSession) Client

// SessionPool hands out one client per device session and closes them together
// at the end of a run.
type SessionPool struct {
	mu      sync.Mutex
	clients map[string]Client
	factory ClientFactory
}

// NewSessionPool creates a pool that builds SSH or Telnet clients
func NewSessionPool() *SessionPool {
	return NewSessionPoolWithFactory(newClient)
}

// NewSessionPoolWithFactory creates a pool using a custom client constructor
func NewSessionPoolWithFactory(factory ClientFactory) *SessionPool {
	return &SessionPool{clients: make(map[string]Client), factory: factory}
}

func cacheKey(cfg entities.DeviceSession) string {
	keyData := struct {
		Transport      string
		Target         string
		Port           int
		Username       string
		Password       string
		EnablePassword string
		Enable         bool
	}{
		Transport:      cfg.Transport,
		Target:         cfg.Target,
		Port:           cfg.Port,
		Username:       cfg.Username,
		Password:       cfg.Password,
		EnablePassword: cfg.EnablePassword,
		Enable:         cfg.Enable,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns the pooled client for the provided session or creates a new one
func (p *SessionPool) Get(cfg entities.DeviceSession) Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := cacheKey(cfg)
	if client, exists := p.clients[key]; exists {
		return client
	}
	client := p.factory(cfg)
	p.clients[key] = client
	return client
}

// Release disconnects and forgets the client of one session
func (p *SessionPool) Release(cfg entities.DeviceSession) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := cacheKey(cfg)
	if client, exists := p.clients[key]; exists {
		client.Disconnect()
		delete(p.clients, key)
	}
}

// CloseAll releases every pooled client session
func (p *SessionPool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, client := range p.clients {
		client.Disconnect()
		delete(p.clients, key)
	}
}

// Len returns the number of pooled clients
func (p *SessionPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

func newClient(cfg entities.DeviceSession) Client {
	if cfg.Transport == "telnet" {
		return NewTelnetClient(cfg)
	}
	return NewSSHClient(cfg)
}

// defaultLoginSequence is the Cisco IOS sequence, used until a driver supplies its own
func defaultLoginSequence(cfg entities.DeviceSession) entities.LoginSequence {
	return entities.LoginSequence{
		Auth: []entities.AuthPrompt{
			{WaitFor: "Username:", SendCmd: cfg.Username + "\n"},
			{WaitFor: "Password:", SendCmd: cfg.Password + "\n", Secret: true},
		},
		Enable: []entities.AuthPrompt{
			{WaitFor: ">", SendCmd: "enable\n"},
			{WaitFor: "Password:", SendCmd: cfg.EnablePassword + "\n", Secret: true},
		},
		Setup: []string{"terminal length 0"},
	}
}
